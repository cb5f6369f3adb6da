package models

import "time"

// Report is an append-only record of a generated and dispatched report.
// ReportText holds the sanitized HTML body that was emailed.
type Report struct {
	ID           int64     `json:"id"`
	ClientID     *int64    `json:"client_id,omitempty"`
	ClientName   *string   `json:"client_name,omitempty"`
	Period       *string   `json:"period,omitempty"`
	ManagerEmail string    `json:"manager_email"`
	ManagerName  string    `json:"manager_name"`
	ReportType   string    `json:"report_type"`
	ReportText   string    `json:"report_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportCreate carries the fields persisted after a report has been sent.
type ReportCreate struct {
	ClientID     *int64  `json:"client_id,omitempty"`
	ClientName   *string `json:"client_name,omitempty"`
	Period       *string `json:"period,omitempty"`
	ManagerEmail string  `json:"manager_email" validate:"required,email"`
	ManagerName  string  `json:"manager_name" validate:"required"`
	ReportType   string  `json:"report_type" validate:"required"`
	ReportText   string  `json:"report_text" validate:"required"`
}
