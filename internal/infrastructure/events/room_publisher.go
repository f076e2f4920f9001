package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/contracts"
	"github.com/hilthontt/codeboard/internal/infrastructure/messaging"
)

// RoomPublisher sends room events to the broker.
type RoomPublisher struct {
	publisher messaging.Publisher
}

func NewRoomPublisher(publisher messaging.Publisher) *RoomPublisher {
	return &RoomPublisher{
		publisher: publisher,
	}
}

func (p *RoomPublisher) Publish(ctx context.Context, event *domain.RoomEvent) error {
	routingKey, ok := contracts.RoutingKey(event.EventType)
	if !ok {
		return fmt.Errorf("no routing key for event %q", event.EventType)
	}

	payload, err := json.Marshal(messaging.RoomEventData{Event: *event})
	if err != nil {
		return err
	}

	return p.publisher.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		RoomID: event.RoomID,
		Data:   payload,
	})
}

// NopPublisher discards events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *domain.RoomEvent) error {
	return nil
}

// AuditPublisher records events straight into the audit trail, for
// deployments without a broker.
type AuditPublisher struct {
	audit domain.RoomAuditRepository
}

func NewAuditPublisher(audit domain.RoomAuditRepository) *AuditPublisher {
	return &AuditPublisher{audit: audit}
}

func (p *AuditPublisher) Publish(ctx context.Context, event *domain.RoomEvent) error {
	return p.audit.Log(ctx, domain.NewRoomAuditLog(event))
}
