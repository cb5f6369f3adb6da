package models

import "time"

// Client is a row in the clients table.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	City      *string   `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientCreate carries the fields accepted when creating a client. Email is
// required so the uniqueness rule always has something to bite on; it is
// normalized to lowercase before hitting the database.
type ClientCreate struct {
	Name  string  `json:"name" validate:"required,min=2,max=100"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	City  *string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// ClientUpdate carries a partial update. Nil means "leave unchanged"; only
// non-nil fields are written.
type ClientUpdate struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	City  *string `json:"city,omitempty" validate:"omitempty,max=100"`
}

// Empty reports whether the update carries no fields at all.
func (u ClientUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.City == nil
}

// ClientNote is an append-only note attached to a client. Notes are never
// updated and disappear with their client (cascade delete).
type ClientNote struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientNoteCreate carries the fields accepted when adding a note.
type ClientNoteCreate struct {
	ClientID int64  `json:"client_id" validate:"required,min=1"`
	Note     string `json:"note" validate:"required,min=1,max=1000"`
}
