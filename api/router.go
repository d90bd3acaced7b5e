package api

import (
	"github.com/fastpace/flightapi/internal/middleware"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the versioned HTTP surface. Signup and login are the
// only routes outside the auth middleware.
func NewRouter(verifier middleware.TokenVerifier, authH *AuthHandler, flightH *FlightHandler, ticketH *TicketHandler, userH *UserHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	v1 := engine.Group("/api/v1")
	authH.Register(v1)

	authed := v1.Group("", middleware.Auth(verifier))
	flightH.Register(authed.Group("/flight"))
	ticketH.Register(authed.Group("/ticket"))
	userH.Register(authed.Group("/user"))

	return engine
}
