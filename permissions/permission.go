// Package permissions holds the route table the RBAC middleware checks at the edge.
// Services apply the access guard again before writing.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"pxltravel/shared/access"
)

//go:embed permissions.json
var permissionsData []byte

// Permission is the level required to call Method on Path, a chi route pattern.
// Skip marks a public route.
type Permission struct {
	Level  access.Level `json:"level"`
	Path   string       `json:"path"`
	Method string       `json:"method"`
	Skip   bool         `json:"skip"`
}

// Required is the level to enforce. Routes without one need a signed-in user.
func (p Permission) Required() access.Level {
	if p.Level == "" {
		return access.LevelAuthenticated
	}

	return p.Level
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions returns the entry for the route, or a zero Permission when none is listed.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Parse decodes a permission table and rejects levels the access guard does not know.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	for _, endpoint := range permissions.Endpoints {
		if endpoint.Level != "" && !endpoint.Level.Valid() {
			return nil, fmt.Errorf("unknown level %q for %s %s", endpoint.Level, endpoint.Method, endpoint.Path)
		}
	}

	return &permissions, nil
}

// Get loads the embedded table. A table that fails to load yields nil, which the middleware treats as deny-all.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
