package recurring

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartScheduler runs svc.RunDue on every tick until ctx is cancelled.
// It is safe to run on several instances at once; the row locks in
// ExecuteDue make concurrent passes execute each schedule once.
func StartScheduler(ctx context.Context, svc Service, every time.Duration, log *zap.SugaredLogger) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := svc.RunDue(ctx, now); n > 0 {
					log.Infow("recurring payments executed", "count", n)
				}
			}
		}
	}()
}
