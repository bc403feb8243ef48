package queue

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/observability/telemetry"
)

// EventPublisher serializes domain events to JSON and hands them to the
// broker. Failures are logged and swallowed.
type EventPublisher struct {
	queue MessageQueue
	log   *zap.Logger
}

func NewEventPublisher(queue MessageQueue, log *zap.Logger) *EventPublisher {
	return &EventPublisher{queue: queue, log: log}
}

func (p *EventPublisher) PublishSellerStatusChanged(ctx context.Context, event domain.SellerStatusChanged) {
	p.publish(domain.SubjectSellerStatusChanged, event, zap.String("seller_id", event.SellerID))
}

func (p *EventPublisher) PublishListingChanged(ctx context.Context, event domain.ListingChanged) {
	p.publish(domain.SubjectListingChanged, event, zap.String("listing_id", event.ListingID))
}

func (p *EventPublisher) publish(subject string, event interface{}, id zap.Field) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode event", zap.String("subject", subject), id, zap.Error(err))
		return
	}
	err = p.queue.Publish(subject, data)
	telemetry.EventsPublishedTotal.WithLabelValues(subject, telemetry.Status(err)).Inc()
	if err != nil {
		p.log.Warn("Failed to publish event", zap.String("subject", subject), id, zap.Error(err))
		return
	}
	p.log.Debug("Event published", zap.String("subject", subject), id)
}
