package bookings

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devevent/backend/internal/models"
	"github.com/devevent/backend/pkg/apperr"
	"github.com/devevent/backend/pkg/queue"
)

// Store is the booking persistence the action needs.
type Store interface {
	CreateBooking(ctx context.Context, eventID uuid.UUID, email string) (*models.Booking, error)
}

// Notifier schedules the confirmation email for a new booking.
type Notifier interface {
	EnqueueBookingConfirmation(ctx context.Context, payload queue.BookingConfirmationPayload) error
}

// Handler serves the booking action.
type Handler struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler creates a booking handler. notifier may be nil.
func NewHandler(store Store, notifier Notifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, notifier: notifier, logger: logger}
}

// CreateBookingRequest is the booking action input, as form fields or JSON.
type CreateBookingRequest struct {
	EventID string `form:"eventId" json:"eventId" binding:"required"`
	Slug    string `form:"slug" json:"slug"`
	Email   string `form:"email" json:"email" binding:"required"`
}

// Result is the booking action outcome. The action always answers 200.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Create handles POST /actions/bookings.
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, Result{Error: "Invalid booking request"})
		return
	}
	c.JSON(http.StatusOK, h.Book(c.Request.Context(), req))
}

// Book creates the booking and schedules its confirmation. Failures are
// reported in the result, never as an error.
func (h *Handler) Book(ctx context.Context, req CreateBookingRequest) Result {
	eventID, err := uuid.Parse(strings.TrimSpace(req.EventID))
	if err != nil {
		return Result{Error: "Event not found"}
	}

	booking, err := h.store.CreateBooking(ctx, eventID, req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnexpected {
			h.logger.Error("create booking failed",
				zap.Error(err),
				zap.String("event_id", eventID.String()),
				zap.String("slug", req.Slug),
			)
			return Result{}
		}
		return Result{Error: apperr.MessageOf(err, "")}
	}

	h.logger.Info("booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("slug", req.Slug),
	)
	if h.notifier != nil {
		payload := queue.BookingConfirmationPayload{
			BookingID: booking.ID,
			EventID:   booking.EventID,
			EventSlug: strings.TrimSpace(req.Slug),
			Email:     booking.Email,
		}
		if err := h.notifier.EnqueueBookingConfirmation(ctx, payload); err != nil {
			h.logger.Warn("enqueue booking confirmation failed", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		}
	}
	return Result{Success: true}
}
