package domain

import "time"

// Schedule carries the route and timing fields shared by flights and
// tickets. A ticket embeds a copy taken from its flight at creation
// time, so later flight edits never rewrite sold tickets.
type Schedule struct {
	DepartureLocation string
	ArrivalLocation   string
	DepartureDate     time.Time
	ArrivalDate       time.Time
	DepartureTime     string
	ArrivalTime       string
}

// SchedulePatch is the full set of ticket fields a holder may edit
// before the ticket is booked. Status and identity fields are not
// representable here on purpose.
type SchedulePatch struct {
	DepartureLocation *string
	ArrivalLocation   *string
	DepartureDate     *time.Time
	ArrivalDate       *time.Time
	DepartureTime     *string
	ArrivalTime       *string
}

func (p SchedulePatch) Apply(s Schedule) Schedule {
	if p.DepartureLocation != nil {
		s.DepartureLocation = *p.DepartureLocation
	}
	if p.ArrivalLocation != nil {
		s.ArrivalLocation = *p.ArrivalLocation
	}
	if p.DepartureDate != nil {
		s.DepartureDate = *p.DepartureDate
	}
	if p.ArrivalDate != nil {
		s.ArrivalDate = *p.ArrivalDate
	}
	if p.DepartureTime != nil {
		s.DepartureTime = *p.DepartureTime
	}
	if p.ArrivalTime != nil {
		s.ArrivalTime = *p.ArrivalTime
	}
	return s
}

// SameCalendarDay compares two instants by calendar date in UTC.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
