// Package worker hosts background goroutines started alongside the HTTP
// server.
package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/caseflow/helpdesk/internal/events"
	"github.com/caseflow/helpdesk/internal/service"
)

// StartNotificationWorker drains the notification queue until the context
// is cancelled. It returns a done channel that closes once the worker has
// fully stopped.
func StartNotificationWorker(ctx context.Context, notifications *service.NotificationService, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		logger.Info("notification worker started")
		for {
			select {
			case <-ctx.Done():
				logger.Info("notification worker stopping")
				return
			case event := <-notifications.Queue():
				deliver(ctx, notifications, logger, event)
			}
		}
	}()

	return done
}

func deliver(ctx context.Context, notifications *service.NotificationService, logger *zap.Logger, event events.Event) {
	if err := notifications.Deliver(ctx, event); err != nil {
		logger.Error("notification delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
