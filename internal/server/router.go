// Package server wires the HTTP routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devevent/backend/internal/auth"
	"github.com/devevent/backend/internal/bookings"
	"github.com/devevent/backend/internal/events"
	"github.com/devevent/backend/internal/middleware"
)

// Deps are the handlers and settings the router needs.
type Deps struct {
	Events             *events.Handler
	Bookings           *bookings.Handler
	Tokens             middleware.TokenValidator // nil leaves organizer routes open
	CORSAllowedOrigins string
	Logger             *zap.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(d.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Public
	router.GET("/events", d.Events.List)
	router.GET("/events/:slug", d.Events.GetBySlug)
	router.GET("/events/:slug/similar", d.Events.Similar)
	router.POST("/actions/bookings", d.Bookings.Create)

	// Organizer
	organizer := router.Group("")
	if d.Tokens != nil {
		organizer.Use(middleware.JWT(d.Tokens), middleware.RequireRole(auth.RoleOrganizer, auth.RoleAdmin))
	}
	{
		organizer.POST("/events", d.Events.Create)
		organizer.PATCH("/events/:slug", d.Events.Update)
	}

	return router
}
