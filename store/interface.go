// Package store holds the entity repositories. Every method takes an
// optional db.Querier: nil means "acquire a pooled connection for this call",
// non-nil means "run on this borrowed connection" so several calls can share
// one connection or transaction.
package store

import (
	"context"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
)

// ClientFilter narrows and pages a client listing.
type ClientFilter struct {
	Name   string
	City   string
	Limit  int
	Offset int
}

// ClientStore is the client repository surface the tool layer depends on.
type ClientStore interface {
	GetByID(ctx context.Context, q db.Querier, id int64) (*models.Client, error)
	GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Client, error)
	GetByName(ctx context.Context, q db.Querier, name string) (*models.Client, error)
	Create(ctx context.Context, q db.Querier, in models.ClientCreate) (*models.Client, error)
	Update(ctx context.Context, q db.Querier, id int64, in models.ClientUpdate) (*models.Client, error)
	Delete(ctx context.Context, q db.Querier, id int64) (bool, error)
	List(ctx context.Context, q db.Querier, filter ClientFilter) ([]models.Client, error)
}

// NoteStore manages append-only client notes.
type NoteStore interface {
	Add(ctx context.Context, q db.Querier, in models.ClientNoteCreate) (*models.ClientNote, error)
	List(ctx context.Context, q db.Querier, clientID int64) ([]models.ClientNote, error)
}

// InvoiceStore is the invoice repository surface.
type InvoiceStore interface {
	GetByID(ctx context.Context, q db.Querier, id int64) (*models.Invoice, error)
	GetAll(ctx context.Context, q db.Querier) ([]models.Invoice, error)
	GetByClientID(ctx context.Context, q db.Querier, clientID int64) ([]models.Invoice, error)
	Create(ctx context.Context, q db.Querier, in models.InvoiceCreate) (*models.Invoice, error)
	CreateWithVerification(ctx context.Context, q db.Querier, in models.InvoiceCreate) (*models.Invoice, error)
	Update(ctx context.Context, q db.Querier, id int64, in models.InvoiceUpdate) (*models.Invoice, error)
	Delete(ctx context.Context, q db.Querier, id int64) (bool, error)
}

// ManagerStore is read-only: managers are seeded out-of-band and act purely
// as the authorization gate for report recipients.
type ManagerStore interface {
	GetByName(ctx context.Context, q db.Querier, name string) (*models.Manager, error)
	GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Manager, error)
	List(ctx context.Context, q db.Querier) ([]models.Manager, error)
}

// ReportStore persists the append-only log of generated reports.
type ReportStore interface {
	Save(ctx context.Context, q db.Querier, in models.ReportCreate) error
	List(ctx context.Context, q db.Querier) ([]models.Report, error)
}
