package reminder

import (
	"context"
	"strconv"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/fastpace/flightapi/internal/kafka"
	"github.com/fastpace/flightapi/internal/repository"
	"github.com/rs/zerolog"
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Marks gates reminder sends to once per user per day.
type Marks interface {
	Mark(ctx context.Context, userID int64, day time.Time) (bool, error)
}

// Service walks all users and enqueues a departure reminder for anyone
// whose first confirmed ticket departs within one calendar day. One
// ticket per user per sweep, as a deliberate scope limit. Failures are
// logged per user and never abort the rest of the sweep.
type Service struct {
	users              repository.UserRepository
	tickets            repository.TicketRepository
	flights            repository.FlightRepository
	producer           Producer
	marks              Marks
	notificationsTopic string
	log                zerolog.Logger
	now                func() time.Time
}

func NewService(users repository.UserRepository, tickets repository.TicketRepository, flights repository.FlightRepository, producer Producer, marks Marks, notificationsTopic string, log zerolog.Logger) *Service {
	return &Service{
		users:              users,
		tickets:            tickets,
		flights:            flights,
		producer:           producer,
		marks:              marks,
		notificationsTopic: notificationsTopic,
		log:                log,
		now:                time.Now,
	}
}

// Sweep returns the number of reminders enqueued.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	allUsers, err := s.users.List(ctx)
	if err != nil {
		return 0, err
	}

	today := truncateToDay(s.now().UTC())
	sent := 0
	for i := range allUsers {
		user := &allUsers[i]
		if s.remindUser(ctx, user, today) {
			sent++
		}
	}
	return sent, nil
}

func (s *Service) remindUser(ctx context.Context, user *domain.User, today time.Time) bool {
	ticket, err := s.tickets.FirstConfirmedByUser(ctx, user.ID)
	if err != nil {
		if !repository.IsNoRows(err) {
			s.log.Error().Err(err).Int64("user_id", user.ID).Msg("load confirmed ticket failed")
		}
		return false
	}

	departure := truncateToDay(ticket.DepartureDate.UTC())
	daysLeft := int(departure.Sub(today).Hours() / 24)
	if daysLeft > 1 {
		return false
	}

	if s.marks != nil {
		fresh, err := s.marks.Mark(ctx, user.ID, today)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", user.ID).Msg("mark reminder failed")
			return false
		}
		if !fresh {
			return false
		}
	}

	flightNumber := ""
	if flight, err := s.flights.GetByID(ctx, ticket.FlightID); err == nil {
		flightNumber = flight.FlightNumber
	}

	event := kafka.NotificationEvent{
		Type:              kafka.EventDepartureReminder,
		TicketID:          ticket.ID,
		FlightID:          ticket.FlightID,
		FlightNumber:      flightNumber,
		Email:             user.Email,
		FirstName:         user.FirstName,
		DepartureLocation: ticket.DepartureLocation,
		ArrivalLocation:   ticket.ArrivalLocation,
		DepartureDate:     ticket.DepartureDate,
		ArrivalDate:       ticket.ArrivalDate,
		DepartureTime:     ticket.DepartureTime,
		ArrivalTime:       ticket.ArrivalTime,
		BookingReference:  ticket.BookingReference,
		ConfirmedFrom:     ticket.ConfirmedFrom,
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, strconv.FormatInt(ticket.ID, 10), event); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("publish reminder failed")
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
