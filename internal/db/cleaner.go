package db

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TokenPurger deletes expired bearer tokens.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// StartTokenCleaner purges expired tokens every interval until ctx is done.
func StartTokenCleaner(
	ctx context.Context,
	purger TokenPurger,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := purger.PurgeExpired(ctx)
				if err != nil {
					log.Error("failed to purge expired tokens", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("purged expired tokens", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
