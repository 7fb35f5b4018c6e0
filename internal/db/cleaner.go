package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

const purgeRequestsQuery = `DELETE FROM verification_requests WHERE deleted = true AND deleted_at < $1`

// StartSoftDeleteCleaner periodically purges requests that were
// soft-deleted more than retention ago. It stops when ctx is done.
func StartSoftDeleteCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
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
				cutoff := time.Now().Add(-retention).UTC()
				res, err := db.ExecContext(ctx, purgeRequestsQuery, cutoff)
				if err != nil {
					log.Error("failed to purge deleted requests", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("purged deleted requests", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
