package store

import (
	"context"
	"fmt"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
)

const reportCols = "id, client_id, client_name, period, manager_email, manager_name, report_type, report_text, created_at"

// Reports persists the append-only log of generated reports.
type Reports struct {
	db *db.DB
}

// NewReports builds a report repository on the given pool manager.
func NewReports(d *db.DB) *Reports {
	return &Reports{db: d}
}

// Save appends a report record.
func (r *Reports) Save(ctx context.Context, q db.Querier, in models.ReportCreate) error {
	if err := models.ValidateStruct(in); err != nil {
		return NewValidationError("invalid report: %v", err)
	}
	return r.db.WithConn(ctx, "reports.Save", q, func(c db.Querier) error {
		_, err := c.Exec(ctx,
			"INSERT INTO reports (client_id, client_name, period, manager_email, manager_name, report_type, report_text) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			in.ClientID, in.ClientName, in.Period, in.ManagerEmail, in.ManagerName, in.ReportType, in.ReportText,
		)
		if err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
		return nil
	})
}

// List returns all persisted reports, newest first.
func (r *Reports) List(ctx context.Context, q db.Querier) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithConn(ctx, "reports.List", q, func(c db.Querier) error {
		rows, err := c.Query(ctx, "SELECT "+reportCols+" FROM reports ORDER BY created_at DESC")
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var rep models.Report
			if err := rows.Scan(&rep.ID, &rep.ClientID, &rep.ClientName, &rep.Period, &rep.ManagerEmail, &rep.ManagerName, &rep.ReportType, &rep.ReportText, &rep.CreatedAt); err != nil {
				return fmt.Errorf("scan report: %w", err)
			}
			reports = append(reports, rep)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate reports: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}
