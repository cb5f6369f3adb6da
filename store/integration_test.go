package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
	"github.com/invoicedesk/invoicedesk/types"
)

// testDB connects to the database named by INVOICEDESK_TEST_DATABASE_URL and
// ensures the tables the tests touch exist. Skipped when the variable is
// unset, so the suite stays runnable without PostgreSQL.
func testDB(t *testing.T) *db.DB {
	t.Helper()
	url := os.Getenv("INVOICEDESK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("INVOICEDESK_TEST_DATABASE_URL not set")
	}

	d := db.New(types.DatabaseConfig{URL: url, MinConns: 1, MaxConns: 2, AcquireTimeoutSeconds: 5})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := d.Connect(ctx)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(d.Close)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			city TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGSERIAL PRIMARY KEY,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			amount NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			description TEXT,
			invoice_date DATE NOT NULL DEFAULT CURRENT_DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	} {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			t.Fatalf("ensure schema: %v", err)
		}
	}
	if _, err := pool.Exec(ctx, "DELETE FROM invoices"); err != nil {
		t.Fatalf("reset invoices: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM clients"); err != nil {
		t.Fatalf("reset clients: %v", err)
	}
	return d
}

func strptr(s string) *string { return &s }

func TestClientsSQLRoundTrip(t *testing.T) {
	d := testDB(t)
	clients := NewClients(d)
	ctx := context.Background()

	created, err := clients.Create(ctx, nil, models.ClientCreate{
		Name:  "Roundtrip GmbH",
		Email: "Billing@Roundtrip.Test",
		City:  strptr("Bremen"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "billing@roundtrip.test" {
		t.Errorf("email must be stored lowercased, got %q", created.Email)
	}

	if _, err := clients.Create(ctx, nil, models.ClientCreate{Name: "Copycat", Email: "billing@roundtrip.test"}); !IsValidation(err) {
		t.Fatalf("want ValidationError for duplicate email, got %v", err)
	}

	updated, err := clients.Update(ctx, nil, created.ID, models.ClientUpdate{City: strptr("Hamburg")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.City == nil || *updated.City != "Hamburg" {
		t.Errorf("city = %v after partial update", updated.City)
	}
	if updated.Name != "Roundtrip GmbH" {
		t.Errorf("partial update must leave name untouched, got %q", updated.Name)
	}

	deleted, err := clients.Delete(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("want deleted = true")
	}
	if _, err := clients.GetByID(ctx, nil, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteBlockedByInvoicesSQL(t *testing.T) {
	d := testDB(t)
	clients := NewClients(d)
	ctx := context.Background()

	created, err := clients.Create(ctx, nil, models.ClientCreate{Name: "Billed AG", Email: "ap@billed.test"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	pool, err := d.Connect(ctx)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "INSERT INTO invoices (client_id, amount, status) VALUES ($1, 120.50, 'pending')", created.ID); err != nil {
		t.Fatalf("insert invoice: %v", err)
	}

	if _, err := clients.Delete(ctx, nil, created.ID); !IsValidation(err) {
		t.Fatalf("want ValidationError while invoices reference the client, got %v", err)
	}

	still, err := clients.GetByID(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("GetByID after blocked delete: %v", err)
	}
	if still.ID != created.ID {
		t.Errorf("client must survive a blocked delete")
	}
}
