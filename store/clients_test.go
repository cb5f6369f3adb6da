package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
	"github.com/invoicedesk/invoicedesk/types"
)

// scriptedQuerier satisfies db.Querier (but not db.Beginner, so WithConn and
// WithTx run directly on it) and records every statement. QueryRow consumes
// scripted row results in order.
type scriptedQuerier struct {
	t     *testing.T
	calls []recordedCall
	rows  []scanFunc
	tag   pgconn.CommandTag
	err   error
}

type recordedCall struct {
	sql  string
	args []any
}

type scanFunc func(dest ...any) error

type scriptedRow struct {
	scan scanFunc
}

func (r scriptedRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

func (s *scriptedQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, recordedCall{sql: sql, args: args})
	return s.tag, s.err
}

func (s *scriptedQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.calls = append(s.calls, recordedCall{sql: sql, args: args})
	return nil, errors.New("no rows scripted for Query")
}

func (s *scriptedQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	s.calls = append(s.calls, recordedCall{sql: sql, args: args})
	if len(s.rows) == 0 {
		s.t.Fatalf("unscripted QueryRow: %s", sql)
	}
	next := s.rows[0]
	s.rows = s.rows[1:]
	return scriptedRow{scan: next}
}

func scanError(err error) scanFunc {
	return func(...any) error { return err }
}

func scanID(id int64) scanFunc {
	return func(dest ...any) error {
		*(dest[0].(*int64)) = id
		return nil
	}
}

func scanCount(n int64) scanFunc {
	return scanID(n)
}

// scanClientRow fills the seven destinations of a clientCols scan.
func scanClientRow(c models.Client) scanFunc {
	return func(dest ...any) error {
		*(dest[0].(*int64)) = c.ID
		*(dest[1].(*string)) = c.Name
		*(dest[2].(*string)) = c.Email
		*(dest[3].(**string)) = c.Phone
		*(dest[4].(**string)) = c.City
		*(dest[5].(*time.Time)) = c.CreatedAt
		*(dest[6].(*time.Time)) = c.UpdatedAt
		return nil
	}
}

func newScripted(t *testing.T, rows ...scanFunc) (*Clients, *scriptedQuerier) {
	q := &scriptedQuerier{t: t, rows: rows}
	// The querier is always borrowed, so the pool is never touched.
	return NewClients(db.New(types.DatabaseConfig{})), q
}

func sampleClient(id int64) models.Client {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	return models.Client{ID: id, Name: "Acme", Email: "billing@acme.test", CreatedAt: now, UpdatedAt: now}
}

func TestCreateRejectsDuplicateEmailPreCheck(t *testing.T) {
	clients, q := newScripted(t, scanID(10))

	_, err := clients.Create(context.Background(), q, models.ClientCreate{Name: "Acme", Email: "Billing@Acme.Test"})
	if !IsValidation(err) {
		t.Fatalf("want ValidationError for duplicate email, got %v", err)
	}

	if len(q.calls) != 1 {
		t.Fatalf("want only the uniqueness check, got %d statements", len(q.calls))
	}
	if q.calls[0].sql != "SELECT id FROM clients WHERE email = $1" {
		t.Errorf("uniqueness check sql = %q", q.calls[0].sql)
	}
	if q.calls[0].args[0] != "billing@acme.test" {
		t.Errorf("email must be lowercased before the check, got %v", q.calls[0].args[0])
	}
}

func TestCreateMapsUniqueViolationFromInsert(t *testing.T) {
	// Pre-check sees no row, but a concurrent insert wins the race and the
	// INSERT itself trips the unique constraint.
	clients, q := newScripted(t,
		scanError(pgx.ErrNoRows),
		scanError(&pgconn.PgError{Code: "23505", ConstraintName: "clients_email_key"}),
	)

	_, err := clients.Create(context.Background(), q, models.ClientCreate{Name: "Acme", Email: "billing@acme.test"})
	if !IsValidation(err) {
		t.Fatalf("want ValidationError for unique violation, got %v", err)
	}
}

func TestCreateInsertSQL(t *testing.T) {
	clients, q := newScripted(t,
		scanError(pgx.ErrNoRows),
		scanClientRow(sampleClient(10)),
	)

	created, err := clients.Create(context.Background(), q, models.ClientCreate{Name: "Acme", Email: "billing@acme.test"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 10 {
		t.Errorf("created.ID = %d", created.ID)
	}

	insert := q.calls[1]
	want := "INSERT INTO clients (name, email, phone, city) VALUES ($1, $2, $3, $4) RETURNING " + clientCols
	if insert.sql != want {
		t.Errorf("insert sql = %q, want %q", insert.sql, want)
	}
	if len(insert.args) != 4 || insert.args[0] != "Acme" || insert.args[1] != "billing@acme.test" {
		t.Errorf("insert args = %v", insert.args)
	}
}

func TestUpdateTouchesOnlySuppliedColumns(t *testing.T) {
	updated := sampleClient(7)
	city := "Hamburg"
	updated.City = &city
	clients, q := newScripted(t,
		scanClientRow(sampleClient(7)),
		scanClientRow(updated),
	)

	got, err := clients.Update(context.Background(), q, 7, models.ClientUpdate{City: &city})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.City == nil || *got.City != "Hamburg" {
		t.Errorf("updated city = %v", got.City)
	}

	if len(q.calls) != 2 {
		t.Fatalf("want fetch + update, got %d statements", len(q.calls))
	}
	update := q.calls[1]
	want := "UPDATE clients SET city = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING " + clientCols
	if update.sql != want {
		t.Errorf("update sql = %q, want %q", update.sql, want)
	}
	if len(update.args) != 2 || update.args[0] != "Hamburg" || update.args[1] != int64(7) {
		t.Errorf("update args = %v", update.args)
	}
}

func TestUpdateEmptyIsNoOp(t *testing.T) {
	clients, q := newScripted(t, scanClientRow(sampleClient(7)))

	got, err := clients.Update(context.Background(), q, 7, models.ClientUpdate{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Acme" {
		t.Errorf("got %+v", got)
	}
	if len(q.calls) != 1 {
		t.Errorf("empty update must only fetch, got %d statements", len(q.calls))
	}
}

func TestUpdateEmailUniquenessExcludesSelf(t *testing.T) {
	email := "New@Acme.Test"
	clients, q := newScripted(t,
		scanClientRow(sampleClient(7)),
		scanError(pgx.ErrNoRows),
		scanClientRow(sampleClient(7)),
	)

	_, err := clients.Update(context.Background(), q, 7, models.ClientUpdate{Email: &email})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	check := q.calls[1]
	if check.sql != "SELECT id FROM clients WHERE email = $1 AND id != $2" {
		t.Errorf("uniqueness check sql = %q", check.sql)
	}
	if check.args[0] != "new@acme.test" || check.args[1] != int64(7) {
		t.Errorf("uniqueness check args = %v", check.args)
	}
}

func TestUpdateEmailTakenByOtherClient(t *testing.T) {
	email := "taken@acme.test"
	clients, q := newScripted(t,
		scanClientRow(sampleClient(7)),
		scanID(99),
	)

	_, err := clients.Update(context.Background(), q, 7, models.ClientUpdate{Email: &email})
	if !IsValidation(err) {
		t.Fatalf("want ValidationError when another client holds the email, got %v", err)
	}
	if len(q.calls) != 2 {
		t.Errorf("no UPDATE must be issued, got %d statements", len(q.calls))
	}
}

func TestDeleteBlockedByInvoices(t *testing.T) {
	clients, q := newScripted(t,
		scanID(7),
		scanCount(3),
	)

	_, err := clients.Delete(context.Background(), q, 7)
	if !IsValidation(err) {
		t.Fatalf("want ValidationError while invoices reference the client, got %v", err)
	}
	for _, call := range q.calls {
		if call.sql == "DELETE FROM clients WHERE id = $1" {
			t.Error("DELETE must not run while invoices exist")
		}
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	clients, q := newScripted(t,
		scanID(7),
		scanCount(0),
	)
	q.tag = pgconn.NewCommandTag("DELETE 1")

	deleted, err := clients.Delete(context.Background(), q, 7)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("want deleted = true")
	}

	last := q.calls[len(q.calls)-1]
	if last.sql != "DELETE FROM clients WHERE id = $1" {
		t.Errorf("delete sql = %q", last.sql)
	}
}

func TestDeleteMissingClient(t *testing.T) {
	clients, q := newScripted(t, scanError(pgx.ErrNoRows))

	deleted, err := clients.Delete(context.Background(), q, 404)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Error("want deleted = false for a missing client")
	}
	if len(q.calls) != 1 {
		t.Errorf("missing client must stop after the existence check, got %d statements", len(q.calls))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	clients, q := newScripted(t, scanError(pgx.ErrNoRows))

	_, err := clients.GetByID(context.Background(), q, 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
