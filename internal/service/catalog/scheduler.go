package catalog

import (
	"context"
	"log/slog"
	"time"
)

// RunPeriodic reconciles all suites immediately and then on every tick of
// interval until ctx is canceled. Per-suite failures are logged and do not
// stop the loop; the catalog simply stays at its last good state until the
// source is fixed.
func (s *Service) RunPeriodic(ctx context.Context, interval time.Duration) {
	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	reports, err := s.SyncAll(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "catalog sync finished with failures",
			slog.Int("suites_ok", len(reports)),
			slog.String("error", err.Error()),
		)
		return
	}

	s.log.InfoContext(ctx, "catalog sync finished",
		slog.Int("suites_ok", len(reports)),
	)
}
