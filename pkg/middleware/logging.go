package middleware

import (
	"log/slog"
	"time"

	"github.com/messenger-dev/messenger-web/pkg/router"
)

// Logging returns a guard that writes one debug line per navigation, or a
// warning when the chain fails.
func Logging(logger *slog.Logger) router.Guard {
	if logger == nil {
		logger = slog.Default().With("component", "navigation")
	}

	return router.GuardFunc(func(nav *router.Navigation, next func() error) error {
		start := time.Now()
		err := next()

		attrs := []any{
			"id", nav.ID,
			"kind", nav.Kind.String(),
			"path", nav.Path,
			"route", nav.To.Label(),
			"duration", time.Since(start),
		}
		if err != nil {
			logger.Warn("navigation failed", append(attrs, "error", err)...)
			return err
		}
		logger.Debug("navigation", append(attrs, "title", nav.Title)...)
		return nil
	})
}
