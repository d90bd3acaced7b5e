package tickets

import (
	"context"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/fastpace/flightapi/internal/kafka"
	"github.com/fastpace/flightapi/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type TicketUseCase interface {
	GetByID(ctx context.Context, id int64, actor *domain.User) (*domain.Ticket, error)
	ListByUser(ctx context.Context, actor *domain.User) ([]domain.Ticket, error)
	Book(ctx context.Context, id int64, actor *domain.User) (*domain.Ticket, error)
	Purchase(ctx context.Context, id int64, actor *domain.User) (*domain.Ticket, error)
	UpdateFields(ctx context.Context, id int64, actor *domain.User, patch domain.SchedulePatch) (*domain.Ticket, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TicketService struct {
	tickets            repository.TicketRepository
	flights            repository.FlightRepository
	producer           Producer
	notificationsTopic string
	log                zerolog.Logger
	now                func() time.Time
}

func NewTicketService(tickets repository.TicketRepository, flights repository.FlightRepository, producer Producer, notificationsTopic string, log zerolog.Logger) *TicketService {
	return &TicketService{
		tickets:            tickets,
		flights:            flights,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		log:                log,
		now:                time.Now,
	}
}

func (s *TicketService) GetByID(ctx context.Context, id int64, actor *domain.User) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.NotFound("Ticket does not exist")
		}
		return nil, err
	}
	if ticket.UserID != actor.ID && !actor.IsStaff {
		return nil, domain.Authorization("You are not authorized to view this ticket")
	}
	return ticket, nil
}

func (s *TicketService) ListByUser(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	return s.tickets.ListByUser(ctx, actor.ID)
}

// Book moves a RESERVED ticket to BOOKED. Tickets already past that
// point stay untouched.
func (s *TicketService) Book(ctx context.Context, id int64, actor *domain.User) (*domain.Ticket, error) {
	ticket, err := s.ownedTicket(ctx, id, actor, "You are not authorized to book this ticket.")
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusBooked || ticket.Status == domain.TicketStatusConfirmed {
		return nil, domain.Forbidden("This ticket has already been booked or purchased")
	}

	updated, err := s.tickets.UpdateStatus(ctx, ticket.ID, domain.TicketStatusBooked)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventTicketBooked, updated, actor)
	return updated, nil
}

// Purchase finalizes a ticket. The booking reference and confirmation
// timestamp are written here and never again: a repeat call fails
// before reaching the store.
func (s *TicketService) Purchase(ctx context.Context, id int64, actor *domain.User) (*domain.Ticket, error) {
	ticket, err := s.ownedTicket(ctx, id, actor, "You are not authorized to purchase this ticket.")
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusConfirmed {
		return nil, domain.Validation("Ticket already purchased for this flight")
	}

	updated, err := s.tickets.Confirm(ctx, ticket.ID, NewBookingReference(), s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventTicketConfirmed, updated, actor)
	return updated, nil
}

// UpdateFields applies a schedule-only patch. The patch type cannot
// carry status or identity fields, so the old mutable-field whitelist
// is enforced by construction; requests with other fields are rejected
// at decode time.
func (s *TicketService) UpdateFields(ctx context.Context, id int64, actor *domain.User, patch domain.SchedulePatch) (*domain.Ticket, error) {
	ticket, err := s.ownedTicket(ctx, id, actor, "You are not authorized to update this ticket.")
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusBooked || ticket.Status == domain.TicketStatusConfirmed {
		return nil, domain.Validation("Cannot update a booked or confirmed ticket")
	}

	updated, err := s.tickets.UpdateSchedule(ctx, ticket.ID, patch.Apply(ticket.Schedule))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TicketService) ownedTicket(ctx context.Context, id int64, actor *domain.User, denied string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.NotFound("Ticket does not exist")
		}
		return nil, err
	}
	if ticket.UserID != actor.ID {
		return nil, domain.Authorization(denied)
	}
	return ticket, nil
}

func (s *TicketService) notify(ctx context.Context, eventType string, ticket *domain.Ticket, user *domain.User) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}

	flightNumber := ""
	if flight, err := s.flights.GetByID(ctx, ticket.FlightID); err == nil {
		flightNumber = flight.FlightNumber
	}

	event := kafka.NotificationEvent{
		Type:              eventType,
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
		s.log.Warn().Err(err).Int64("ticket_id", ticket.ID).Str("type", eventType).Msg("publish notification failed")
	}
}

// NewBookingReference returns the 6-character uppercase hex token
// stamped on confirmed tickets.
func NewBookingReference() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:]))[:6]
}

var _ TicketUseCase = (*TicketService)(nil)
