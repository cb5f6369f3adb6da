package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
)

const clientCols = "id, name, email, phone, city, created_at, updated_at"

// Clients is the PostgreSQL-backed client repository.
type Clients struct {
	db *db.DB
}

// NewClients builds a client repository on the given pool manager.
func NewClients(d *db.DB) *Clients {
	return &Clients{db: d}
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.City, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return &c, nil
}

// GetByID returns the client with the given id, or ErrNotFound.
func (r *Clients) GetByID(ctx context.Context, q db.Querier, id int64) (*models.Client, error) {
	var client *models.Client
	err := r.db.WithConn(ctx, "clients.GetByID", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+clientCols+" FROM clients WHERE id = $1", id)
		found, err := scanClient(row)
		if err != nil {
			return err
		}
		client = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetByEmail looks a client up by email, compared case-insensitively.
// Returns ErrNotFound when no client carries the address.
func (r *Clients) GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Client, error) {
	var client *models.Client
	err := r.db.WithConn(ctx, "clients.GetByEmail", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+clientCols+" FROM clients WHERE email = $1", strings.ToLower(email))
		found, err := scanClient(row)
		if err != nil {
			return err
		}
		client = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// GetByName looks a client up by exact name, compared case-insensitively.
// Used by the report pipeline to resolve a report's target client.
func (r *Clients) GetByName(ctx context.Context, q db.Querier, name string) (*models.Client, error) {
	var client *models.Client
	err := r.db.WithConn(ctx, "clients.GetByName", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+clientCols+" FROM clients WHERE LOWER(name) = LOWER($1)", name)
		found, err := scanClient(row)
		if err != nil {
			return err
		}
		client = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Create inserts a new client. The email is normalized to lowercase first; a
// duplicate of an existing email (pre-checked, and re-checked via the unique
// constraint) yields a ValidationError.
func (r *Clients) Create(ctx context.Context, q db.Querier, in models.ClientCreate) (*models.Client, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, NewValidationError("invalid client: %v", err)
	}
	email := strings.ToLower(in.Email)

	var client *models.Client
	err := r.db.WithConn(ctx, "clients.Create", q, func(c db.Querier) error {
		var existing int64
		err := c.QueryRow(ctx, "SELECT id FROM clients WHERE email = $1", email).Scan(&existing)
		if err == nil {
			return NewValidationError("email %s is already registered", email)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check email uniqueness: %w", err)
		}

		row := c.QueryRow(ctx,
			"INSERT INTO clients (name, email, phone, city) VALUES ($1, $2, $3, $4) RETURNING "+clientCols,
			in.Name, email, in.Phone, in.City,
		)
		created, err := scanClient(row)
		if err != nil {
			if isUniqueViolation(err) {
				return NewValidationError("email %s is already registered", email)
			}
			return err
		}
		client = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Update applies a partial update to a client. Only non-nil fields of in are
// written; with no fields supplied the current row is returned untouched. A
// supplied email is re-checked for uniqueness excluding this client.
func (r *Clients) Update(ctx context.Context, q db.Querier, id int64, in models.ClientUpdate) (*models.Client, error) {
	if err := models.ValidateStruct(in); err != nil {
		return nil, NewValidationError("invalid client update: %v", err)
	}

	var client *models.Client
	err := r.db.WithConn(ctx, "clients.Update", q, func(c db.Querier) error {
		row := c.QueryRow(ctx, "SELECT "+clientCols+" FROM clients WHERE id = $1", id)
		current, err := scanClient(row)
		if err != nil {
			return err
		}
		if in.Empty() {
			client = current
			return nil
		}

		update := db.NewUpdate("clients")
		if in.Name != nil {
			update.Set("name", *in.Name)
		}
		if in.Email != nil {
			email := strings.ToLower(*in.Email)
			var other int64
			err := c.QueryRow(ctx, "SELECT id FROM clients WHERE email = $1 AND id != $2", email, id).Scan(&other)
			if err == nil {
				return NewValidationError("email %s is already registered by another client", email)
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("check email uniqueness: %w", err)
			}
			update.Set("email", email)
		}
		if in.Phone != nil {
			update.Set("phone", *in.Phone)
		}
		if in.City != nil {
			update.Set("city", *in.City)
		}
		update.TouchUpdatedAt()

		sql, args := update.Build(id, clientCols)
		updated, err := scanClient(c.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}
		client = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client and, via the foreign key cascade, its notes. It
// returns (false, nil) when the client does not exist and a ValidationError
// when the client still has invoices: deleting it would leave them dangling.
func (r *Clients) Delete(ctx context.Context, q db.Querier, id int64) (bool, error) {
	deleted := false
	err := r.db.WithTx(ctx, "clients.Delete", q, func(c db.Querier) error {
		var existing int64
		err := c.QueryRow(ctx, "SELECT id FROM clients WHERE id = $1", id).Scan(&existing)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("check client exists: %w", err)
		}

		var invoices int64
		if err := c.QueryRow(ctx, "SELECT COUNT(*) FROM invoices WHERE client_id = $1", id).Scan(&invoices); err != nil {
			return fmt.Errorf("count client invoices: %w", err)
		}
		if invoices > 0 {
			return NewValidationError("client %d still has %d invoice(s); delete or reassign them first", id, invoices)
		}

		tag, err := c.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		deleted = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// List returns clients ordered by ascending id, optionally filtered by
// case-insensitive partial name and city matches, paged by limit/offset.
func (r *Clients) List(ctx context.Context, q db.Querier, filter ClientFilter) ([]models.Client, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any
	if filter.Name != "" {
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, "%"+strings.ToLower(filter.City)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(city) LIKE $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	sql := fmt.Sprintf("SELECT %s FROM clients %s ORDER BY id LIMIT $%d OFFSET $%d",
		clientCols, where, len(args)-1, len(args))

	var clients []models.Client
	err := r.db.WithConn(ctx, "clients.List", q, func(c db.Querier) error {
		rows, err := c.Query(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("list clients: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var cl models.Client
			if err := rows.Scan(&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.City, &cl.CreatedAt, &cl.UpdatedAt); err != nil {
				return fmt.Errorf("scan client: %w", err)
			}
			clients = append(clients, cl)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate clients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}
