package models

import "time"

// Manager is an authorized report recipient. Managers are seeded out-of-band
// and read-only from the application's perspective.
type Manager struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      *string   `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
