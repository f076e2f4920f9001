package events

import (
	"context"
	"encoding/json"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/contracts"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

// RoomConsumer writes an audit trail of room events from the rooms queue.
type RoomConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audit    domain.RoomAuditRepository
	logger   logging.Logger
}

func NewRoomConsumer(rabbitmq *messaging.RabbitMQ, audit domain.RoomAuditRepository, logger logging.Logger) *RoomConsumer {
	return &RoomConsumer{
		rabbitmq: rabbitmq,
		audit:    audit,
		logger:   logger,
	}
}

func (c *RoomConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.RoomsQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		return c.Handle(ctx, msg.Body)
	})
}

// Handle decodes one delivery body and records it.
func (c *RoomConsumer) Handle(ctx context.Context, body []byte) error {
	var message contracts.AmqpMessage
	if err := json.Unmarshal(body, &message); err != nil {
		c.logger.Error(logging.RabbitMQ, logging.Consume, "failed to unmarshal message", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	var payload messaging.RoomEventData
	if err := json.Unmarshal(message.Data, &payload); err != nil {
		c.logger.Error(logging.RabbitMQ, logging.Consume, "failed to unmarshal room event", map[logging.ExtraKey]any{
			logging.RoomID:       message.RoomID,
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	c.logger.Info(logging.RabbitMQ, logging.Consume, "room event", map[logging.ExtraKey]any{
		logging.RoomID:    payload.Event.RoomID,
		logging.EventType: payload.Event.EventType,
		"metadata":        payload.Event.Metadata,
		"timestamp":       payload.Event.Timestamp,
	})

	if err := c.audit.Log(ctx, domain.NewRoomAuditLog(&payload.Event)); err != nil {
		c.logger.Error(logging.RabbitMQ, logging.Consume, "failed to store audit entry", map[logging.ExtraKey]any{
			logging.RoomID:       payload.Event.RoomID,
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	return nil
}
