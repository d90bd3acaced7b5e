package repository

import (
	"context"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error)
	ListByFlightStatus(ctx context.Context, flightID int64, status domain.TicketStatus) ([]domain.Ticket, error)
	ExistsForUserFlight(ctx context.Context, userID, flightID int64) (bool, error)
	ExistsForUserFlightExcludingStatus(ctx context.Context, userID, flightID int64, excluded domain.TicketStatus) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error)
	Confirm(ctx context.Context, id int64, reference string, confirmedFrom time.Time) (*domain.Ticket, error)
	UpdateSchedule(ctx context.Context, id int64, schedule domain.Schedule) (*domain.Ticket, error)
	FirstConfirmedByUser(ctx context.Context, userID int64) (*domain.Ticket, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, flight_id, user_id, departure_location, arrival_location, departure_date, arrival_date, departure_time, arrival_time, status, booking_reference, confirmed_from, created_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.FlightID, &t.UserID, &t.DepartureLocation, &t.ArrivalLocation,
		&t.DepartureDate, &t.ArrivalDate, &t.DepartureTime, &t.ArrivalTime,
		&t.Status, &t.BookingReference, &t.ConfirmedFrom, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.db.QueryRow(ctx, `INSERT INTO tickets (flight_id, user_id, departure_location, arrival_location, departure_date, arrival_date, departure_time, arrival_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		ticket.FlightID, ticket.UserID, ticket.DepartureLocation, ticket.ArrivalLocation,
		ticket.DepartureDate, ticket.ArrivalDate, ticket.DepartureTime, ticket.ArrivalTime,
		ticket.Status).
		Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id))
}

func (r *PGTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *PGTicketRepository) ListByFlightStatus(ctx context.Context, flightID int64, status domain.TicketStatus) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE flight_id=$1 AND status=$2 ORDER BY created_at`, flightID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *PGTicketRepository) ExistsForUserFlight(ctx context.Context, userID, flightID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE user_id=$1 AND flight_id=$2)`, userID, flightID).Scan(&exists)
	return exists, err
}

func (r *PGTicketRepository) ExistsForUserFlightExcludingStatus(ctx context.Context, userID, flightID int64, excluded domain.TicketStatus) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE user_id=$1 AND flight_id=$2 AND status <> $3)`, userID, flightID, excluded).Scan(&exists)
	return exists, err
}

func (r *PGTicketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `UPDATE tickets SET status=$1 WHERE id=$2 RETURNING `+ticketColumns, status, id))
}

// Confirm writes the terminal state in one statement so the reference
// and timestamp cannot be set without the status flip.
func (r *PGTicketRepository) Confirm(ctx context.Context, id int64, reference string, confirmedFrom time.Time) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `UPDATE tickets SET status=$1, booking_reference=$2, confirmed_from=$3 WHERE id=$4 RETURNING `+ticketColumns,
		domain.TicketStatusConfirmed, reference, confirmedFrom, id))
}

func (r *PGTicketRepository) UpdateSchedule(ctx context.Context, id int64, schedule domain.Schedule) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `UPDATE tickets SET departure_location=$1, arrival_location=$2, departure_date=$3, arrival_date=$4, departure_time=$5, arrival_time=$6 WHERE id=$7 RETURNING `+ticketColumns,
		schedule.DepartureLocation, schedule.ArrivalLocation, schedule.DepartureDate,
		schedule.ArrivalDate, schedule.DepartureTime, schedule.ArrivalTime, id))
}

func (r *PGTicketRepository) FirstConfirmedByUser(ctx context.Context, userID int64) (*domain.Ticket, error) {
	return scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id=$1 AND status=$2 ORDER BY created_at LIMIT 1`, userID, domain.TicketStatusConfirmed))
}

var _ TicketRepository = (*PGTicketRepository)(nil)
