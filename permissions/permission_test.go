package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxltravel/permissions"
	"pxltravel/shared/access"
)

func TestGet_EmbeddedTable(t *testing.T) {
	table := permissions.Get()
	require.NotNil(t, table)

	tests := []struct {
		path   string
		method string
		want   access.Level
	}{
		{path: "/v1/bookings/{id}/status", method: "PATCH", want: access.LevelAdmin},
		{path: "/v1/users/{id}/role", method: "patch", want: access.LevelSuperAdmin},
		{path: "/v1/bookings", method: "POST", want: access.LevelAuthenticated},
		{path: "/v1/local-flights", method: "POST", want: access.LevelAdmin},
		{path: "/v1/unlisted", method: "GET", want: access.LevelAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, table.FindPermissions(tt.path, tt.method).Required())
		})
	}

	assert.True(t, table.FindPermissions("/v1/local-flights", "GET").Skip)
	assert.True(t, table.FindPermissions("/v1/auth/login", "POST").Skip)
}

func TestParse_UnknownLevel(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints":[{"path":"/v1/users","method":"GET","level":"root"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown level "root"`)

	_, err = permissions.Parse([]byte(`{`))
	require.Error(t, err)
}
