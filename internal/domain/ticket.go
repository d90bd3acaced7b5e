package domain

import "time"

type TicketStatus string

const (
	TicketStatusReserved  TicketStatus = "RESERVED"
	TicketStatusBooked    TicketStatus = "BOOKED"
	TicketStatusConfirmed TicketStatus = "CONFIRMED"
)

// Ticket references one flight and one user. The embedded Schedule is
// a snapshot of the flight at creation time. BookingReference and
// ConfirmedFrom are written exactly once, on the transition into
// CONFIRMED, and are empty before it.
type Ticket struct {
	ID       int64
	FlightID int64
	UserID   int64
	Schedule
	Status           TicketStatus
	BookingReference string
	ConfirmedFrom    *time.Time
	CreatedAt        time.Time
}
