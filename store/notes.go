package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
)

// Notes is the PostgreSQL-backed client note repository. Notes are
// append-only: no update, no standalone delete.
type Notes struct {
	db *db.DB
}

// NewNotes builds a note repository on the given pool manager.
func NewNotes(d *db.DB) *Notes {
	return &Notes{db: d}
}

// Add appends a note to a client. The client must exist; a missing client
// surfaces as a ValidationError rather than a bare foreign key failure.
func (r *Notes) Add(ctx context.Context, q db.Querier, in models.ClientNoteCreate) (*models.ClientNote, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, NewValidationError("invalid note: %v", err)
	}

	var note *models.ClientNote
	err := r.db.WithConn(ctx, "notes.Add", q, func(c db.Querier) error {
		var existing int64
		err := c.QueryRow(ctx, "SELECT id FROM clients WHERE id = $1", in.ClientID).Scan(&existing)
		if errors.Is(err, pgx.ErrNoRows) {
			return NewValidationError("client %d does not exist", in.ClientID)
		}
		if err != nil {
			return fmt.Errorf("check client exists: %w", err)
		}

		var n models.ClientNote
		err = c.QueryRow(ctx,
			"INSERT INTO client_notes (client_id, note) VALUES ($1, $2) RETURNING id, client_id, note, created_at",
			in.ClientID, in.Note,
		).Scan(&n.ID, &n.ClientID, &n.Note, &n.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		note = &n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// List returns a client's notes, newest first.
func (r *Notes) List(ctx context.Context, q db.Querier, clientID int64) ([]models.ClientNote, error) {
	var notes []models.ClientNote
	err := r.db.WithConn(ctx, "notes.List", q, func(c db.Querier) error {
		rows, err := c.Query(ctx,
			"SELECT id, client_id, note, created_at FROM client_notes WHERE client_id = $1 ORDER BY created_at DESC",
			clientID,
		)
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var n models.ClientNote
			if err := rows.Scan(&n.ID, &n.ClientID, &n.Note, &n.CreatedAt); err != nil {
				return fmt.Errorf("scan note: %w", err)
			}
			notes = append(notes, n)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate notes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}
