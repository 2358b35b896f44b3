package storage

import (
	"context"
	"time"

	"github.com/keshon/clan-taunt/internal/quota"

	"github.com/rs/zerolog/log"
)

// RunQuotaCleaner drops yesterday's taunt answer counters every hour until ctx is done.
func RunQuotaCleaner(ctx context.Context, store *Storage) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.ClearStaleQuotas(quota.Day(time.Now()))
			if err != nil {
				log.Error().Err(err).Msg("Error clearing stale taunt quotas")
				continue
			}
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("Cleared stale taunt quotas")
			}
		}
	}
}
