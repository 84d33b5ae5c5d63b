package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system. Identity is established by an
// upstream gateway; this service only needs the ID, an active flag for the
// automation loop, and the selected personality preset.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	PresetKey string    `json:"preset_key,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
