package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/caseflow/helpdesk/internal/config"
	"github.com/caseflow/helpdesk/internal/events"
)

// NotificationService turns domain events into notification jobs. Delivery
// itself happens on the background worker.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
	queue  chan events.Event
}

func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
		queue:  make(chan events.Event, cfg.QueueSize),
	}
}

// Queue exposes the pending notification channel to the worker.
func (s *NotificationService) Queue() <-chan events.Event {
	return s.queue
}

// RegisterHandlers subscribes the service to every event type it reacts to.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	types := []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAccepted,
		events.EventTicketFinished,
		events.EventTicketReturned,
		events.EventTicketDeleted,
		events.EventCommentAdded,
	}
	for _, t := range types {
		dispatcher.Subscribe(t, s.enqueue)
	}
}

// enqueue hands the event to the worker without blocking the publisher. A
// full queue drops the notification; tickets themselves are unaffected.
func (s *NotificationService) enqueue(_ context.Context, event events.Event) error {
	if !s.cfg.Enabled {
		return nil
	}
	select {
	case s.queue <- event:
	default:
		s.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
	}
	return nil
}

// Deliver sends one notification. Email and webhook transports are stubbed
// behind structured logs until an outbound channel is provisioned.
func (s *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	s.logger.Info("delivering notification",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID))
	return nil
}
