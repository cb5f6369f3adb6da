package db

import (
	"fmt"
	"strings"
)

// UpdateBuilder assembles a dynamic partial UPDATE from only the fields a
// caller explicitly supplied. Column names must come from a fixed allow-list
// in the repository, never from user input; values travel as positional
// placeholders.
type UpdateBuilder struct {
	table   string
	columns []string
	values  []any
	touch   bool
}

// NewUpdate starts an update statement against table.
func NewUpdate(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set adds one column assignment. Call it once per explicitly supplied field.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// TouchUpdatedAt adds a server-side updated_at bump to the statement.
func (b *UpdateBuilder) TouchUpdatedAt() *UpdateBuilder {
	b.touch = true
	return b
}

// Empty reports whether no columns were set. An empty update is the caller's
// signal to no-op and return the current row instead of issuing SQL.
func (b *UpdateBuilder) Empty() bool {
	return len(b.columns) == 0
}

// Build renders the statement and its argument list. The row id becomes the
// final placeholder; returning lists the columns echoed back by the database.
func (b *UpdateBuilder) Build(id any, returning ...string) (string, []any) {
	assignments := make([]string, 0, len(b.columns)+1)
	for i, col := range b.columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, i+1))
	}
	if b.touch {
		assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")
	}

	args := make([]any, len(b.values), len(b.values)+1)
	copy(args, b.values)
	args = append(args, id)

	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET %s WHERE id = $%d", b.table, strings.Join(assignments, ", "), len(args))
	if len(returning) > 0 {
		fmt.Fprintf(&sb, " RETURNING %s", strings.Join(returning, ", "))
	}
	return sb.String(), args
}
