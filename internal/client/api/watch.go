package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/RentVerify/internal/models"
)

// WatchStatus polls the tenant request id every interval and calls
// onChange whenever its status differs from the last one seen. It stops
// when ctx is done, the session expires or the request is gone.
func (c *Client) WatchStatus(ctx context.Context, id string, interval time.Duration, onChange func(models.TenantView)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last models.Status
		for {
			req, err := c.MyRequest(ctx, id)
			var apiErr *Error
			switch {
			case errors.Is(err, ErrSessionExpired):
				c.log.Info("status watch stopped", zap.String("request", id), zap.Error(err))
				return
			case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
				c.log.Info("status watch stopped, request not found", zap.String("request", id))
				return
			case err != nil:
				c.log.Warn("status poll failed", zap.String("request", id), zap.Error(err))
			case req.Status != last:
				if last != "" {
					onChange(*req)
				}
				last = req.Status
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
