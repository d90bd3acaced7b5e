package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/fastpace/flightapi/internal/middleware"
	"github.com/fastpace/flightapi/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.PATCH("/:id/book", h.book)
	router.POST("/:id/purchase", h.purchase)
	router.PUT("/:id", h.update)
}

// ticketUpdateRequest is deliberately limited to schedule fields. The
// decoder rejects anything else, status and ownership included.
type ticketUpdateRequest struct {
	DepartureLocation *string `json:"departure_location"`
	ArrivalLocation   *string `json:"arrival_location"`
	DepartureDate     *string `json:"departure_date"`
	ArrivalDate       *string `json:"arrival_date"`
	DepartureTime     *string `json:"departure_time"`
	ArrivalTime       *string `json:"arrival_time"`
}

func (r ticketUpdateRequest) toPatch() (domain.SchedulePatch, error) {
	patch := domain.SchedulePatch{
		DepartureLocation: r.DepartureLocation,
		ArrivalLocation:   r.ArrivalLocation,
		DepartureTime:     r.DepartureTime,
		ArrivalTime:       r.ArrivalTime,
	}
	if r.DepartureDate != nil {
		d, err := time.Parse(time.DateOnly, *r.DepartureDate)
		if err != nil {
			return domain.SchedulePatch{}, domain.Validation("departure_date must be in YYYY-MM-DD format")
		}
		patch.DepartureDate = &d
	}
	if r.ArrivalDate != nil {
		d, err := time.Parse(time.DateOnly, *r.ArrivalDate)
		if err != nil {
			return domain.SchedulePatch{}, domain.Validation("arrival_date must be in YYYY-MM-DD format")
		}
		patch.ArrivalDate = &d
	}
	return patch, nil
}

func ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *TicketHandler) list(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}
	all, err := h.service.ListByUser(c.Request.Context(), actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponses(all))
}

func (h *TicketHandler) get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}
	ticket, err := h.service.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) book(c *gin.Context) {
	id, ok := ticketID(c)
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
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) purchase(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}
	ticket, err := h.service.Purchase(c.Request.Context(), id, actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) update(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	var req ticketUpdateRequest
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Some of the fields provided are not allowed for this action"})
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		respondErr(c, err)
		return
	}

	ticket, err := h.service.UpdateFields(c.Request.Context(), id, actor, patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}
