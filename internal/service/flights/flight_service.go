package flights

import (
	"context"
	"strconv"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/fastpace/flightapi/internal/kafka"
	"github.com/fastpace/flightapi/internal/repository"
	"github.com/rs/zerolog"
)

type FlightUseCase interface {
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
	Reserve(ctx context.Context, flightID int64, actor *domain.User) (*domain.Ticket, error)
	Book(ctx context.Context, flightID int64, actor *domain.User) (*domain.Ticket, error)
	ReservedOnDate(ctx context.Context, flightID int64, date time.Time) ([]domain.Ticket, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type FlightInput struct {
	FlightNumber  string
	Schedule      domain.Schedule
	PriceCents    int64
	PriceCurrency string
}

type FlightService struct {
	flights            repository.FlightRepository
	tickets            repository.TicketRepository
	producer           Producer
	notificationsTopic string
	log                zerolog.Logger
}

func NewFlightService(flights repository.FlightRepository, tickets repository.TicketRepository, producer Producer, notificationsTopic string, log zerolog.Logger) *FlightService {
	return &FlightService{
		flights:            flights,
		tickets:            tickets,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		log:                log,
	}
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	if input.FlightNumber == "" {
		return nil, domain.Validation("Flight number is required")
	}
	flight := &domain.Flight{
		FlightNumber:  input.FlightNumber,
		Schedule:      input.Schedule,
		Status:        domain.FlightStatusAvailable,
		PriceCents:    input.PriceCents,
		PriceCurrency: input.PriceCurrency,
	}
	if flight.PriceCurrency == "" {
		flight.PriceCurrency = "NGN"
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}
	return flight, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.NotFound("Flight does not exist")
		}
		return nil, err
	}
	return flight, nil
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.List(ctx)
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	flight, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FlightNumber == "" {
		return nil, domain.Validation("Flight number is required")
	}
	flight.FlightNumber = input.FlightNumber
	flight.Schedule = input.Schedule
	flight.PriceCents = input.PriceCents
	if input.PriceCurrency != "" {
		flight.PriceCurrency = input.PriceCurrency
	}
	if err := s.flights.Update(ctx, flight); err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.NotFound("Flight does not exist")
		}
		return nil, err
	}
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.flights.Delete(ctx, id); err != nil {
		if repository.IsNoRows(err) {
			return domain.NotFound("Flight does not exist")
		}
		return err
	}
	return nil
}

// SetStatus overwrites the flight status unconditionally. There is no
// transition graph: any status can follow any other.
func (s *FlightService) SetStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	if status == "" {
		return nil, domain.Validation("Status field cannot be empty")
	}
	if !domain.ValidFlightStatus(status) {
		return nil, domain.Validation("flight status is incorrect")
	}
	flight, err := s.flights.UpdateStatus(ctx, id, status)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.NotFound("Flight does not exist")
		}
		return nil, err
	}
	return flight, nil
}

// Reserve creates a soft hold. Any existing ticket for the pair,
// whatever its status, counts as a duplicate here; Book below is
// deliberately looser. The existence check is check-then-act, so two
// concurrent reserves can both pass it.
func (s *FlightService) Reserve(ctx context.Context, flightID int64, actor *domain.User) (*domain.Ticket, error) {
	flight, err := s.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	exists, err := s.tickets.ExistsForUserFlight(ctx, actor.ID, flight.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("Ticket already exist for this flight")
	}

	ticket := &domain.Ticket{
		FlightID: flight.ID,
		UserID:   actor.ID,
		Schedule: flight.Schedule,
		Status:   domain.TicketStatusReserved,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventTicketReserved, flight, ticket, actor)
	return ticket, nil
}

// Book creates a new BOOKED ticket. An existing RESERVED ticket does
// not block it and is not upgraded, the holder simply ends up with two
// tickets. That mirrors the booking flow this service replaces.
func (s *FlightService) Book(ctx context.Context, flightID int64, actor *domain.User) (*domain.Ticket, error) {
	flight, err := s.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	exists, err := s.tickets.ExistsForUserFlightExcludingStatus(ctx, actor.ID, flight.ID, domain.TicketStatusReserved)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Validation("This flight has either being booked or confirmed")
	}

	ticket := &domain.Ticket{
		FlightID: flight.ID,
		UserID:   actor.ID,
		Schedule: flight.Schedule,
		Status:   domain.TicketStatusBooked,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.notify(ctx, kafka.EventTicketBooked, flight, ticket, actor)
	return ticket, nil
}

// ReservedOnDate returns the flight's CONFIRMED tickets whose
// confirmation falls on the given calendar date.
func (s *FlightService) ReservedOnDate(ctx context.Context, flightID int64, date time.Time) ([]domain.Ticket, error) {
	flight, err := s.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.tickets.ListByFlightStatus(ctx, flight.ID, domain.TicketStatusConfirmed)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Ticket, 0)
	for _, t := range confirmed {
		if t.ConfirmedFrom != nil && domain.SameCalendarDay(*t.ConfirmedFrom, date) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (s *FlightService) notify(ctx context.Context, eventType string, flight *domain.Flight, ticket *domain.Ticket, user *domain.User) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.NotificationEvent{
		Type:              eventType,
		TicketID:          ticket.ID,
		FlightID:          flight.ID,
		FlightNumber:      flight.FlightNumber,
		Email:             user.Email,
		FirstName:         user.FirstName,
		DepartureLocation: ticket.DepartureLocation,
		ArrivalLocation:   ticket.ArrivalLocation,
		DepartureDate:     ticket.DepartureDate,
		ArrivalDate:       ticket.ArrivalDate,
		DepartureTime:     ticket.DepartureTime,
		ArrivalTime:       ticket.ArrivalTime,
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, strconv.FormatInt(ticket.ID, 10), event); err != nil {
		s.log.Warn().Err(err).Int64("ticket_id", ticket.ID).Str("type", eventType).Msg("publish notification failed")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
