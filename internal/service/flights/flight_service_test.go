package flights

import (
	"context"
	"testing"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/fastpace/flightapi/internal/kafka"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFlightRepository) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByFlightStatus(ctx context.Context, flightID int64, status domain.TicketStatus) ([]domain.Ticket, error) {
	args := m.Called(ctx, flightID, status)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ExistsForUserFlight(ctx context.Context, userID, flightID int64) (bool, error) {
	args := m.Called(ctx, userID, flightID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) ExistsForUserFlightExcludingStatus(ctx context.Context, userID, flightID int64, excluded domain.TicketStatus) (bool, error) {
	args := m.Called(ctx, userID, flightID, excluded)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Confirm(ctx context.Context, id int64, reference string, confirmedFrom time.Time) (*domain.Ticket, error) {
	args := m.Called(ctx, id, reference, confirmedFrom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateSchedule(ctx context.Context, id int64, schedule domain.Schedule) (*domain.Ticket, error) {
	args := m.Called(ctx, id, schedule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FirstConfirmedByUser(ctx context.Context, userID int64) (*domain.Ticket, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func testFlight() *domain.Flight {
	return &domain.Flight{
		ID:           7,
		FlightNumber: "KF34R",
		Schedule: domain.Schedule{
			DepartureLocation: "Lagos",
			ArrivalLocation:   "New York",
			DepartureDate:     time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
			ArrivalDate:       time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			DepartureTime:     "10:30",
			ArrivalTime:       "07:00",
		},
		Status:        domain.FlightStatusAvailable,
		PriceCents:    4500000,
		PriceCurrency: "NGN",
	}
}

func newFlightService(flightRepo *MockFlightRepository, ticketRepo *MockTicketRepository, producer *MockProducer) *FlightService {
	return NewFlightService(flightRepo, ticketRepo, producer, "notifications", zerolog.Nop())
}

func TestFlightService_SetStatus_Empty(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	service := newFlightService(flightRepo, &MockTicketRepository{}, &MockProducer{})

	_, err := service.SetStatus(context.Background(), 7, "")

	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.Equal(t, "Status field cannot be empty", de.Message)
	flightRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_SetStatus_UnknownStatus(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	service := newFlightService(flightRepo, &MockTicketRepository{}, &MockProducer{})

	_, err := service.SetStatus(context.Background(), 7, "BOARDING")

	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.Equal(t, "flight status is incorrect", de.Message)
	flightRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_SetStatus_AnyTransitionAllowed(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	service := newFlightService(flightRepo, &MockTicketRepository{}, &MockProducer{})

	landed := testFlight()
	landed.Status = domain.FlightStatusLanded
	flightRepo.On("UpdateStatus", mock.Anything, int64(7), domain.FlightStatusLanded).Return(landed, nil)

	updated, err := service.SetStatus(context.Background(), 7, domain.FlightStatusLanded)

	assert.NoError(t, err)
	assert.Equal(t, domain.FlightStatusLanded, updated.Status)
	flightRepo.AssertExpectations(t)
}

func TestFlightService_Reserve_Success(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	ticketRepo := &MockTicketRepository{}
	producer := &MockProducer{}
	service := newFlightService(flightRepo, ticketRepo, producer)

	actor := &domain.User{ID: 3, Email: "sola.smith@gmail.com", FirstName: "Sola"}
	flight := testFlight()

	flightRepo.On("GetByID", mock.Anything, int64(7)).Return(flight, nil)
	ticketRepo.On("ExistsForUserFlight", mock.Anything, int64(3), int64(7)).Return(false, nil)
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Ticket).ID = 42
	}).Return(nil)
	producer.On("Publish", mock.Anything, "notifications", "42", mock.Anything).Return(nil)

	ticket, err := service.Reserve(context.Background(), 7, actor)

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusReserved, ticket.Status)
	assert.Equal(t, flight.Schedule, ticket.Schedule)
	assert.Empty(t, ticket.BookingReference)
	producer.AssertCalled(t, "Publish", mock.Anything, "notifications", "42", mock.MatchedBy(func(v interface{}) bool {
		event, ok := v.(kafka.NotificationEvent)
		return ok && event.Type == kafka.EventTicketReserved && event.Email == "sola.smith@gmail.com"
	}))
}

func TestFlightService_Reserve_FlightMissing(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	service := newFlightService(flightRepo, &MockTicketRepository{}, &MockProducer{})

	flightRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, pgx.ErrNoRows)

	_, err := service.Reserve(context.Background(), 99, &domain.User{ID: 3})

	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindNotFound, de.Kind)
	assert.Equal(t, "Flight does not exist", de.Message)
}

func TestFlightService_Reserve_DuplicateRegardlessOfStatus(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	ticketRepo := &MockTicketRepository{}
	service := newFlightService(flightRepo, ticketRepo, &MockProducer{})

	flightRepo.On("GetByID", mock.Anything, int64(7)).Return(testFlight(), nil)
	ticketRepo.On("ExistsForUserFlight", mock.Anything, int64(3), int64(7)).Return(true, nil)

	_, err := service.Reserve(context.Background(), 7, &domain.User{ID: 3})

	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindConflict, de.Kind)
	assert.Equal(t, "Ticket already exist for this flight", de.Message)
	ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_Book_BypassesReservedTicket(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	ticketRepo := &MockTicketRepository{}
	producer := &MockProducer{}
	service := newFlightService(flightRepo, ticketRepo, producer)

	flightRepo.On("GetByID", mock.Anything, int64(7)).Return(testFlight(), nil)
	// A RESERVED ticket exists, but only non-RESERVED tickets block booking.
	ticketRepo.On("ExistsForUserFlightExcludingStatus", mock.Anything, int64(3), int64(7), domain.TicketStatusReserved).Return(false, nil)
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Ticket).ID = 43
	}).Return(nil)
	producer.On("Publish", mock.Anything, "notifications", "43", mock.Anything).Return(nil)

	ticket, err := service.Book(context.Background(), 7, &domain.User{ID: 3})

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusBooked, ticket.Status)
}

func TestFlightService_Book_AlreadyBookedOrConfirmed(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	ticketRepo := &MockTicketRepository{}
	service := newFlightService(flightRepo, ticketRepo, &MockProducer{})

	flightRepo.On("GetByID", mock.Anything, int64(7)).Return(testFlight(), nil)
	ticketRepo.On("ExistsForUserFlightExcludingStatus", mock.Anything, int64(3), int64(7), domain.TicketStatusReserved).Return(true, nil)

	_, err := service.Book(context.Background(), 7, &domain.User{ID: 3})

	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.Equal(t, "This flight has either being booked or confirmed", de.Message)
	ticketRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_Book_PublishFailureDoesNotFailBooking(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	ticketRepo := &MockTicketRepository{}
	producer := &MockProducer{}
	service := newFlightService(flightRepo, ticketRepo, producer)

	flightRepo.On("GetByID", mock.Anything, int64(7)).Return(testFlight(), nil)
	ticketRepo.On("ExistsForUserFlightExcludingStatus", mock.Anything, int64(3), int64(7), domain.TicketStatusReserved).Return(false, nil)
	ticketRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).Return(nil)
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	ticket, err := service.Book(context.Background(), 7, &domain.User{ID: 3})

	assert.NoError(t, err)
	assert.NotNil(t, ticket)
}

func TestFlightService_ReservedOnDate_MatchesCalendarDate(t *testing.T) {
	flightRepo := &MockFlightRepository{}
	ticketRepo := &MockTicketRepository{}
	service := newFlightService(flightRepo, ticketRepo, &MockProducer{})

	on := time.Date(2026, 9, 15, 23, 50, 0, 0, time.UTC)
	dayBefore := time.Date(2026, 9, 14, 0, 10, 0, 0, time.UTC)

	flightRepo.On("GetByID", mock.Anything, int64(7)).Return(testFlight(), nil)
	ticketRepo.On("ListByFlightStatus", mock.Anything, int64(7), domain.TicketStatusConfirmed).Return([]domain.Ticket{
		{ID: 1, ConfirmedFrom: &on},
		{ID: 2, ConfirmedFrom: &dayBefore},
		{ID: 3, ConfirmedFrom: nil},
	}, nil)

	matched, err := service.ReservedOnDate(context.Background(), 7, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, int64(1), matched[0].ID)
}
