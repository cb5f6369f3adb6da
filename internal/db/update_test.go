package db

import "testing"

func TestUpdateBuilderSingleField(t *testing.T) {
	b := NewUpdate("clients").Set("name", "Alice")
	sql, args := b.Build(int64(7), "id", "name")

	want := "UPDATE clients SET name = $1 WHERE id = $2 RETURNING id, name"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	if args[0] != "Alice" {
		t.Errorf("args[0] = %v, want Alice", args[0])
	}
	if args[1] != int64(7) {
		t.Errorf("args[1] = %v, want 7", args[1])
	}
}

func TestUpdateBuilderMultipleFieldsKeepPlaceholderOrder(t *testing.T) {
	b := NewUpdate("invoices").
		Set("client_id", int64(3)).
		Set("amount", "120.50").
		Set("status", "paid")
	sql, args := b.Build(int64(9))

	want := "UPDATE invoices SET client_id = $1, amount = $2, status = $3 WHERE id = $4"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	if args[3] != int64(9) {
		t.Errorf("id placeholder arg = %v, want 9", args[3])
	}
}

func TestUpdateBuilderTouchUpdatedAt(t *testing.T) {
	b := NewUpdate("clients").Set("city", "Valencia").TouchUpdatedAt()
	sql, args := b.Build(int64(1), "id")

	want := "UPDATE clients SET city = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING id"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestUpdateBuilderEmpty(t *testing.T) {
	b := NewUpdate("clients")
	if !b.Empty() {
		t.Error("builder with no fields should report Empty")
	}
	b.Set("name", "x")
	if b.Empty() {
		t.Error("builder with a field should not report Empty")
	}
}
