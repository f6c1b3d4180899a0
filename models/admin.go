package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents an administrator account allowed into the dashboard
type Admin struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PinHash   string    `json:"-"` // Never serialize credential hash
	CreatedAt time.Time `json:"created_at"`
}
