package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// NotificationEvent is the payload put on the notifications topic for
// every ticket lifecycle side effect. The worker turns these into
// emails; the API process never waits for that.
type NotificationEvent struct {
	Type              string     `json:"type"`
	TicketID          int64      `json:"ticket_id"`
	FlightID          int64      `json:"flight_id"`
	FlightNumber      string     `json:"flight_number"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	DepartureLocation string     `json:"departure_location"`
	ArrivalLocation   string     `json:"arrival_location"`
	DepartureDate     time.Time  `json:"departure_date"`
	ArrivalDate       time.Time  `json:"arrival_date"`
	DepartureTime     string     `json:"departure_time"`
	ArrivalTime       string     `json:"arrival_time"`
	BookingReference  string     `json:"booking_reference,omitempty"`
	ConfirmedFrom     *time.Time `json:"confirmed_from,omitempty"`
}

const (
	EventTicketReserved    = "ticket_reserved"
	EventTicketBooked      = "ticket_booked"
	EventTicketConfirmed   = "ticket_confirmed"
	EventDepartureReminder = "departure_reminder"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
