package observe

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/bjaus/registry"
)

// Logging returns an option that logs mutations and misses to logger at
// debug level. Matches are not logged; use Metrics to count them.
func Logging(logger zerolog.Logger) registry.Option {
	return registry.Compose(
		registry.WithOnAdd(func(name string, added, size int) {
			logger.Debug().
				Str("registry", name).
				Int("added", added).
				Int("size", size).
				Msg("matchers added")
		}),
		registry.WithOnRemove(func(name string, removed, size int) {
			logger.Debug().
				Str("registry", name).
				Int("removed", removed).
				Int("size", size).
				Msg("matchers removed")
		}),
		registry.WithOnMiss(func(name string, d time.Duration) {
			logger.Debug().
				Str("registry", name).
				Dur("duration", d).
				Msg("no match")
		}),
	)
}
