package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
)

const invoiceCols = "id, client_id, amount::text, issued_at, due_date, status"

// Invoices is the PostgreSQL-backed invoice repository.
type Invoices struct {
	db *db.DB
}

// NewInvoices builds an invoice repository on the given pool manager.
func NewInvoices(d *db.DB) *Invoices {
	return &Invoices{db: d}
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.ClientID, &inv.Amount, &inv.IssuedAt, &inv.DueDate, &inv.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]models.Invoice, error) {
	defer rows.Close()
	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.ClientID, &inv.Amount, &inv.IssuedAt, &inv.DueDate, &inv.Status); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return invoices, nil
}

// GetByID returns the invoice with the given id, or ErrNotFound.
func (r *Invoices) GetByID(ctx context.Context, q db.Querier, id int64) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := r.db.WithConn(ctx, "invoices.GetByID", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+invoiceCols+" FROM invoices WHERE id = $1", id)
		found, err := scanInvoice(row)
		if err != nil {
			return err
		}
		invoice = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetAll returns every invoice ordered by id.
func (r *Invoices) GetAll(ctx context.Context, q db.Querier) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithConn(ctx, "invoices.GetAll", q, func(c db.Querier) error {
		rows, err := c.Query(ctx, "SELECT "+invoiceCols+" FROM invoices ORDER BY id")
		if err != nil {
			return fmt.Errorf("list invoices: %w", err)
		}
		invoices, err = collectInvoices(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetByClientID returns all invoices of one client ordered by id. It does
// not verify that the client exists; the tool layer performs that check when
// "client not found" must be distinguished from "client has no invoices".
func (r *Invoices) GetByClientID(ctx context.Context, q db.Querier, clientID int64) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithConn(ctx, "invoices.GetByClientID", q, func(c db.Querier) error {
		rows, err := c.Query(ctx, "SELECT "+invoiceCols+" FROM invoices WHERE client_id = $1 ORDER BY id", clientID)
		if err != nil {
			return fmt.Errorf("list client invoices: %w", err)
		}
		invoices, err = collectInvoices(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func insertInvoice(ctx context.Context, c db.Querier, in models.InvoiceCreate) (*models.Invoice, error) {
	issuedAt := time.Now()
	if in.IssuedAt != nil {
		issuedAt = *in.IssuedAt
	}
	status := string(models.StatusPending)
	if in.Status != nil {
		status = *in.Status
	}
	row := c.QueryRow(ctx,
		"INSERT INTO invoices (client_id, amount, issued_at, due_date, status) VALUES ($1, $2::numeric, $3, $4, $5) RETURNING "+invoiceCols,
		in.ClientID, in.Amount, issuedAt, in.DueDate, status,
	)
	return scanInvoice(row)
}

// Create inserts a new invoice, defaulting issued_at to today and status to
// pending. Callers are expected to have verified the client exists; use
// CreateWithVerification when the check and the insert must be indivisible.
func (r *Invoices) Create(ctx context.Context, q db.Querier, in models.InvoiceCreate) (*models.Invoice, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, NewValidationError("invalid invoice: %v", err)
	}

	var invoice *models.Invoice
	err := r.db.WithConn(ctx, "invoices.Create", q, func(c db.Querier) error {
		created, err := insertInvoice(ctx, c, in)
		if err != nil {
			return err
		}
		invoice = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// CreateWithVerification re-checks that the client exists and inserts the
// invoice inside one transaction, so the invoice can never land on a client
// deleted between check and insert.
func (r *Invoices) CreateWithVerification(ctx context.Context, q db.Querier, in models.InvoiceCreate) (*models.Invoice, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, NewValidationError("invalid invoice: %v", err)
	}

	var invoice *models.Invoice
	err := r.db.WithTx(ctx, "invoices.CreateWithVerification", q, func(c db.Querier) error {
		var existing int64
		err := c.QueryRow(ctx, "SELECT id FROM clients WHERE id = $1", in.ClientID).Scan(&existing)
		if errors.Is(err, pgx.ErrNoRows) {
			return NewValidationError("cannot create invoice: client %d does not exist", in.ClientID)
		}
		if err != nil {
			return fmt.Errorf("check client exists: %w", err)
		}

		created, err := insertInvoice(ctx, c, in)
		if err != nil {
			return err
		}
		invoice = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// Update applies a partial update to an invoice. A supplied client_id is
// re-validated against the clients table first; a missing client yields a
// descriptive ValidationError and leaves the invoice unchanged. With no
// fields supplied the current row is returned untouched.
func (r *Invoices) Update(ctx context.Context, q db.Querier, id int64, in models.InvoiceUpdate) (*models.Invoice, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, NewValidationError("invalid invoice update: %v", err)
	}

	var invoice *models.Invoice
	err := r.db.WithConn(ctx, "invoices.Update", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+invoiceCols+" FROM invoices WHERE id = $1", id)
		current, err := scanInvoice(row)
		if err != nil {
			return err
		}
		if in.Empty() {
			invoice = current
			return nil
		}

		update := db.NewUpdate("invoices")
		if in.ClientID != nil {
			var existing int64
			err := c.QueryRow(ctx, "SELECT id FROM clients WHERE id = $1", *in.ClientID).Scan(&existing)
			if errors.Is(err, pgx.ErrNoRows) {
				return NewValidationError("cannot move invoice %d: client %d does not exist", id, *in.ClientID)
			}
			if err != nil {
				return fmt.Errorf("check client exists: %w", err)
			}
			update.Set("client_id", *in.ClientID)
		}
		if in.Amount != nil {
			update.Set("amount", *in.Amount)
		}
		if in.IssuedAt != nil {
			update.Set("issued_at", *in.IssuedAt)
		}
		if in.DueDate != nil {
			update.Set("due_date", *in.DueDate)
		}
		if in.Status != nil {
			update.Set("status", *in.Status)
		}

		sql, args := update.Build(id, invoiceCols)
		updated, err := scanInvoice(c.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}
		invoice = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// Delete removes an invoice after an existence check. It returns (false,
// nil) when the invoice does not exist, so a repeated delete is an idempotent
// no rather than an error.
func (r *Invoices) Delete(ctx context.Context, q db.Querier, id int64) (bool, error) {
	deleted := false
	err := r.db.WithConn(ctx, "invoices.Delete", q, func(c db.Querier) error {
		var existing int64
		err := c.QueryRow(ctx, "SELECT id FROM invoices WHERE id = $1", id).Scan(&existing)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("check invoice exists: %w", err)
		}

		tag, err := c.Exec(ctx, "DELETE FROM invoices WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		deleted = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
