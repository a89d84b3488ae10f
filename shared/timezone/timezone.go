// Package timezone keeps every timestamp the service produces in the configured APP_TIMEZONE.
// The location is resolved on first use; an unknown or empty name falls back to UTC.
package timezone

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/shared/constant"
)

var (
	mu       sync.RWMutex
	location *time.Location
)

// Load resolves name and makes it the application location.
func Load(name string) *time.Location {
	loc := time.UTC

	if name != constant.Empty {
		resolved, err := time.LoadLocation(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("unknown timezone, falling back to UTC")
		} else {
			loc = resolved
		}
	}

	mu.Lock()
	location = loc
	mu.Unlock()

	return loc
}

// Location returns the application location, loading it from config on first use.
func Location() *time.Location {
	mu.RLock()
	loc := location
	mu.RUnlock()

	if loc != nil {
		return loc
	}

	return Load(config.Get().App.Timezone)
}

func Now() time.Time {
	return time.Now().In(Location())
}

// Parse reads value as a wall clock time in the application location.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location()) //nolint:wrapcheck
}

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	return Parse(constant.DateOnlyFormat, value)
}

func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
