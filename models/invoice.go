package models

import "time"

// InvoiceStatus is the constrained set of invoice states.
type InvoiceStatus string

const (
	StatusPending  InvoiceStatus = "pending"
	StatusPaid     InvoiceStatus = "paid"
	StatusCanceled InvoiceStatus = "canceled"
)

// ValidStatus reports whether s is one of the allowed invoice states.
func ValidStatus(s string) bool {
	switch InvoiceStatus(s) {
	case StatusPending, StatusPaid, StatusCanceled:
		return true
	}
	return false
}

// Invoice is a row in the invoices table. Amount is kept as the textual form
// of the numeric(10,2) column so no precision is lost in transit.
type Invoice struct {
	ID       int64         `json:"id"`
	ClientID int64         `json:"client_id"`
	Amount   string        `json:"amount"`
	IssuedAt time.Time     `json:"issued_at"`
	DueDate  *time.Time    `json:"due_date,omitempty"`
	Status   InvoiceStatus `json:"status"`
}

// InvoiceCreate carries the fields accepted when creating an invoice.
// IssuedAt defaults to today and Status to pending when unset.
type InvoiceCreate struct {
	ClientID int64      `json:"client_id" validate:"required,min=1"`
	Amount   string     `json:"amount" validate:"required,money"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Status   *string    `json:"status,omitempty" validate:"omitempty,oneof=pending paid canceled"`
}

// InvoiceUpdate carries a partial update. Nil means "leave unchanged".
type InvoiceUpdate struct {
	ClientID *int64     `json:"client_id,omitempty" validate:"omitempty,min=1"`
	Amount   *string    `json:"amount,omitempty" validate:"omitempty,money"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	Status   *string    `json:"status,omitempty" validate:"omitempty,oneof=pending paid canceled"`
}

// Empty reports whether the update carries no fields at all.
func (u InvoiceUpdate) Empty() bool {
	return u.ClientID == nil && u.Amount == nil && u.IssuedAt == nil && u.DueDate == nil && u.Status == nil
}
