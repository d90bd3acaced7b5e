package repository

import (
	"context"
	"errors"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, departure_location, arrival_location, departure_date, arrival_date, departure_time, arrival_time, status, price_cents, price_currency, created_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.DepartureLocation, &f.ArrivalLocation,
		&f.DepartureDate, &f.ArrivalDate, &f.DepartureTime, &f.ArrivalTime,
		&f.Status, &f.PriceCents, &f.PriceCurrency, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, departure_location, arrival_location, departure_date, arrival_date, departure_time, arrival_time, status, price_cents, price_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		flight.FlightNumber, flight.DepartureLocation, flight.ArrivalLocation,
		flight.DepartureDate, flight.ArrivalDate, flight.DepartureTime, flight.ArrivalTime,
		flight.Status, flight.PriceCents, flight.PriceCurrency).
		Scan(&flight.ID, &flight.CreatedAt)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_date, departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET flight_number=$1, departure_location=$2, arrival_location=$3, departure_date=$4, arrival_date=$5, departure_time=$6, arrival_time=$7, price_cents=$8, price_currency=$9 WHERE id=$10`,
		flight.FlightNumber, flight.DepartureLocation, flight.ArrivalLocation,
		flight.DepartureDate, flight.ArrivalDate, flight.DepartureTime, flight.ArrivalTime,
		flight.PriceCents, flight.PriceCurrency, flight.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGFlightRepository) UpdateStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `UPDATE flights SET status=$1 WHERE id=$2 RETURNING `+flightColumns, status, id))
}

var _ FlightRepository = (*PGFlightRepository)(nil)

// IsNoRows reports whether err is the driver's empty-result error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
