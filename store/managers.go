package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
)

const managerCols = "id, name, email, role, created_at"

// Managers is the read-only manager repository. The managers table is the
// authorization gate for report recipients and is seeded out-of-band.
type Managers struct {
	db *db.DB
}

// NewManagers builds a manager repository on the given pool manager.
func NewManagers(d *db.DB) *Managers {
	return &Managers{db: d}
}

func scanManager(row pgx.Row) (*models.Manager, error) {
	var m models.Manager
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan manager: %w", err)
	}
	return &m, nil
}

// GetByName returns the manager with the exact given name, or ErrNotFound.
func (r *Managers) GetByName(ctx context.Context, q db.Querier, name string) (*models.Manager, error) {
	var manager *models.Manager
	err := r.db.WithConn(ctx, "managers.GetByName", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+managerCols+" FROM managers WHERE name = $1", name)
		found, err := scanManager(row)
		if err != nil {
			return err
		}
		manager = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return manager, nil
}

// GetByEmail returns the manager with the exact given email, or ErrNotFound.
func (r *Managers) GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Manager, error) {
	var manager *models.Manager
	err := r.db.WithConn(ctx, "managers.GetByEmail", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+managerCols+" FROM managers WHERE email = $1", email)
		found, err := scanManager(row)
		if err != nil {
			return err
		}
		manager = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return manager, nil
}

// List returns all managers ordered by id.
func (r *Managers) List(ctx context.Context, q db.Querier) ([]models.Manager, error) {
	var managers []models.Manager
	err := r.db.WithConn(ctx, "managers.List", q, func(c db.Querier) error {
		rows, err := c.Query(ctx, "SELECT "+managerCols+" FROM managers ORDER BY id")
		if err != nil {
			return fmt.Errorf("list managers: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var m models.Manager
			if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.CreatedAt); err != nil {
				return fmt.Errorf("scan manager: %w", err)
			}
			managers = append(managers, m)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate managers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return managers, nil
}
