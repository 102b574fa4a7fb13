package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/AaronAmha/HomeManagement/internal/events"
)

// ActivityService records intake domain events to the structured log.
// It is the audit trail for what the flow did on each turn.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all intake events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.logEvent)
	a.dispatcher.Subscribe(events.EventTicketTriaged, a.logEvent)
	a.dispatcher.Subscribe(events.EventMessageLogged, a.logEvent)
	a.dispatcher.Subscribe(events.EventLandlordNotified, a.logEvent)
	a.dispatcher.Subscribe(events.EventUnknownSender, a.logEvent)
}

func (a *ActivityService) logEvent(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("ticket_id", event.TicketID),
		zap.String("tenant_id", event.TenantID),
		zap.Any("payload", event.Payload),
	)
	return nil
}
