package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/fastpace/flightapi/internal/middleware"
	"github.com/fastpace/flightapi/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/reserved/:date", h.reservedOnDate)
	router.POST("/:id/reserve", h.reserve)
	router.POST("/:id/book", h.book)

	admin := router.Group("", middleware.RequireAdmin())
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.PATCH("/:id/status", h.setStatus)
}

type flightRequest struct {
	FlightNumber      string `json:"flight_number"`
	DepartureLocation string `json:"departure_location"`
	ArrivalLocation   string `json:"arrival_location"`
	DepartureDate     string `json:"departure_date"`
	ArrivalDate       string `json:"arrival_date"`
	DepartureTime     string `json:"departure_time"`
	ArrivalTime       string `json:"arrival_time"`
	PriceCents        int64  `json:"price_cents"`
	PriceCurrency     string `json:"price_currency"`
}

func (r flightRequest) toInput() (flights.FlightInput, error) {
	departureDate, err := time.Parse(time.DateOnly, r.DepartureDate)
	if err != nil {
		return flights.FlightInput{}, domain.Validation("departure_date must be in YYYY-MM-DD format")
	}
	arrivalDate, err := time.Parse(time.DateOnly, r.ArrivalDate)
	if err != nil {
		return flights.FlightInput{}, domain.Validation("arrival_date must be in YYYY-MM-DD format")
	}
	return flights.FlightInput{
		FlightNumber: r.FlightNumber,
		Schedule: domain.Schedule{
			DepartureLocation: r.DepartureLocation,
			ArrivalLocation:   r.ArrivalLocation,
			DepartureDate:     departureDate,
			ArrivalDate:       arrivalDate,
			DepartureTime:     r.DepartureTime,
			ArrivalTime:       r.ArrivalTime,
		},
		PriceCents:    r.PriceCents,
		PriceCurrency: r.PriceCurrency,
	}, nil
}

func flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *FlightHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]flightResponse, 0, len(all))
	for i := range all {
		out = append(out, toFlightResponse(&all[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondErr(c, err)
		return
	}
	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondErr(c, err)
		return
	}
	flight, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) setStatus(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status field cannot be empty"})
		return
	}
	flight, err := h.service.SetStatus(c.Request.Context(), id, domain.FlightStatus(req.Status))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) reserve(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}
	ticket, err := h.service.Reserve(c.Request.Context(), id, actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (h *FlightHandler) book(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}
	ticket, err := h.service.Book(c.Request.Context(), id, actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (h *FlightHandler) reservedOnDate(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	date, err := time.Parse(time.DateOnly, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "date must be in YYYY-MM-DD format"})
		return
	}
	tickets, err := h.service.ReservedOnDate(c.Request.Context(), id, date)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservations":       toTicketResponses(tickets),
		"reservations_count": len(tickets),
	})
}
