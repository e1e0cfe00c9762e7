package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one email signup for an event, unique per (EventID, Email).
type Booking struct {
	ID        uuid.UUID `json:"_id"`
	EventID   uuid.UUID `json:"eventId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
