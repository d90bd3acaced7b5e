package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Handler receives one decoded notification event.
type Handler func(ctx context.Context, event NotificationEvent) error

// Consumer reads the notifications topic and hands typed events to a
// handler. Delivery is at-most-once: undecodable messages and handler
// failures are logged and the offset moves on, they never stop the
// loop.
type Consumer struct {
	reader *kafka.Reader
	log    zerolog.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log zerolog.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks until the context is canceled or the reader fails.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		c.dispatch(ctx, msg.Value, handler)
	}
}

func (c *Consumer) dispatch(ctx context.Context, payload []byte, handler Handler) {
	var event NotificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.log.Error().Err(err).Msg("decode notification event")
		return
	}
	if err := handler(ctx, event); err != nil {
		c.log.Error().Err(err).Str("type", event.Type).Int64("ticket_id", event.TicketID).Msg("handle notification event")
	}
}
