package domain

import "time"

type FlightStatus string

const (
	FlightStatusAvailable FlightStatus = "AVAILABLE"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusLanded    FlightStatus = "LANDED"
)

var flightStatuses = map[FlightStatus]struct{}{
	FlightStatusAvailable: {},
	FlightStatusDelayed:   {},
	FlightStatusArrived:   {},
	FlightStatusCancelled: {},
	FlightStatusDeparted:  {},
	FlightStatusLanded:    {},
}

func ValidFlightStatus(s FlightStatus) bool {
	_, ok := flightStatuses[s]
	return ok
}

type Flight struct {
	ID           int64
	FlightNumber string
	Schedule
	Status        FlightStatus
	PriceCents    int64
	PriceCurrency string
	CreatedAt     time.Time
}
