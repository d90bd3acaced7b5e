package api

import (
	"net/http"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondErr turns a domain error into the status the API contract
// promises. Authorization failures are 401 on this surface, distinct
// from the role-based 403.
func respondErr(c *gin.Context, err error) {
	if de, ok := domain.AsError(err); ok {
		c.JSON(statusFor(de.Kind), gin.H{"message": de.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindAuthentication:
		return http.StatusBadRequest
	case domain.KindAuthorization:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type flightResponse struct {
	ID                int64  `json:"id"`
	FlightNumber      string `json:"flight_number"`
	DepartureLocation string `json:"departure_location"`
	ArrivalLocation   string `json:"arrival_location"`
	DepartureDate     string `json:"departure_date"`
	ArrivalDate       string `json:"arrival_date"`
	DepartureTime     string `json:"departure_time"`
	ArrivalTime       string `json:"arrival_time"`
	Status            string `json:"status"`
	PriceCents        int64  `json:"price_cents"`
	PriceCurrency     string `json:"price_currency"`
	CreatedAt         string `json:"created_at"`
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:                f.ID,
		FlightNumber:      f.FlightNumber,
		DepartureLocation: f.DepartureLocation,
		ArrivalLocation:   f.ArrivalLocation,
		DepartureDate:     f.DepartureDate.Format(time.DateOnly),
		ArrivalDate:       f.ArrivalDate.Format(time.DateOnly),
		DepartureTime:     f.DepartureTime,
		ArrivalTime:       f.ArrivalTime,
		Status:            string(f.Status),
		PriceCents:        f.PriceCents,
		PriceCurrency:     f.PriceCurrency,
		CreatedAt:         f.CreatedAt.Format(time.RFC3339),
	}
}

type ticketResponse struct {
	ID                int64  `json:"id"`
	FlightID          int64  `json:"flight_id"`
	UserID            int64  `json:"user_id"`
	Status            string `json:"status"`
	BookingReference  string `json:"booking_reference,omitempty"`
	DepartureLocation string `json:"departure_location"`
	ArrivalLocation   string `json:"arrival_location"`
	DepartureDate     string `json:"departure_date"`
	ArrivalDate       string `json:"arrival_date"`
	DepartureTime     string `json:"departure_time"`
	ArrivalTime       string `json:"arrival_time"`
	ConfirmedFrom     string `json:"confirmed_from,omitempty"`
	CreatedAt         string `json:"created_at"`
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:                t.ID,
		FlightID:          t.FlightID,
		UserID:            t.UserID,
		Status:            string(t.Status),
		BookingReference:  t.BookingReference,
		DepartureLocation: t.DepartureLocation,
		ArrivalLocation:   t.ArrivalLocation,
		DepartureDate:     t.DepartureDate.Format(time.DateOnly),
		ArrivalDate:       t.ArrivalDate.Format(time.DateOnly),
		DepartureTime:     t.DepartureTime,
		ArrivalTime:       t.ArrivalTime,
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
	}
	if t.ConfirmedFrom != nil {
		resp.ConfirmedFrom = t.ConfirmedFrom.Format(time.RFC3339)
	}
	return resp
}

func toTicketResponses(tickets []domain.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, toTicketResponse(&tickets[i]))
	}
	return out
}

type userResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
	PhotoKey  string `json:"profile_photo,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsStaff:   u.IsStaff,
		PhotoKey:  u.PhotoKey,
	}
}
