package bookings

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/devevent/backend/internal/models"
	"github.com/devevent/backend/pkg/apperr"
	"github.com/devevent/backend/pkg/database"
)

const bookingConstraint = "bookings_event_email_key"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Repository handles booking persistence.
type Repository struct {
	db database.Connector
}

// NewRepository creates a booking repository.
func NewRepository(db database.Connector) *Repository {
	return &Repository{db: db}
}

// NormalizeEmail trims email and checks its shape. Case is preserved, so
// the (event, email) uniqueness key is case-sensitive.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return "", apperr.Validation("Invalid email format")
	}
	return email, nil
}

// CreateBooking books email onto the event with eventID. One booking per
// event and email is enforced by the bookings_event_email_key index.
func (r *Repository) CreateBooking(ctx context.Context, eventID uuid.UUID, email string) (*models.Booking, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	db, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("Event not found")
	}

	b := models.Booking{ID: uuid.New(), EventID: eventID, Email: normalized}
	err = db.QueryRow(ctx,
		`INSERT INTO bookings (id, event_id, email) VALUES ($1, $2, $3) RETURNING created_at, updated_at`,
		b.ID, b.EventID, b.Email,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, bookingConstraint):
			return nil, apperr.Conflict("You already booked this event.")
		case database.IsForeignKeyViolation(err):
			return nil, apperr.NotFound("Event not found")
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return &b, nil
}

// CountByEvent returns the number of bookings for eventID.
func (r *Repository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	db, err := r.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id = $1`, eventID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}
