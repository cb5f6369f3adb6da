package types

// MCP Tool Parameter Types

// SearchClientByEmailParams for looking up a client by email address
type SearchClientByEmailParams struct {
	Email string `json:"email" mcp:"Client email address to search for (required)"`
}

// AddClientParams for creating a new client
type AddClientParams struct {
	Name  string `json:"name" mcp:"Client full name, 2-100 characters (required)"`
	Email string `json:"email" mcp:"Client email address, unique case-insensitively (required)"`
	Phone string `json:"phone,omitempty" mcp:"Client phone number, 6-20 characters"`
	City  string `json:"city,omitempty" mcp:"Client city of residence"`
}

// SendWelcomeEmailParams for sending a welcome email to an address
type SendWelcomeEmailParams struct {
	Email string `json:"email" mcp:"Recipient email address (required)"`
	Name  string `json:"name" mcp:"Recipient name used in the greeting (required)"`
}

// AddClientAndSendWelcomeEmailParams for creating a client and sending the
// welcome email in one call
type AddClientAndSendWelcomeEmailParams struct {
	Name  string `json:"name" mcp:"Client full name, 2-100 characters (required)"`
	Email string `json:"email" mcp:"Client email address, unique case-insensitively (required)"`
	Phone string `json:"phone,omitempty" mcp:"Client phone number, 6-20 characters"`
	City  string `json:"city,omitempty" mcp:"Client city of residence"`
}

// UpdateClientParams for partially updating an existing client. Only fields
// that are present are modified; absent fields are left unchanged.
type UpdateClientParams struct {
	ClientID int64   `json:"client_id" mcp:"ID of the client to update (required)"`
	Name     *string `json:"name,omitempty" mcp:"New client name"`
	Email    *string `json:"email,omitempty" mcp:"New client email (must stay unique)"`
	Phone    *string `json:"phone,omitempty" mcp:"New client phone number"`
	City     *string `json:"city,omitempty" mcp:"New client city"`
}

// DeleteClientParams for deleting a client
type DeleteClientParams struct {
	ClientID int64 `json:"client_id" mcp:"ID of the client to delete (required)"`
}

// ListClientsParams for listing clients with optional filters and pagination
type ListClientsParams struct {
	Name   string `json:"name,omitempty" mcp:"Case-insensitive partial match on client name"`
	City   string `json:"city,omitempty" mcp:"Case-insensitive partial match on client city"`
	Limit  int    `json:"limit,omitempty" mcp:"Maximum number of clients to return (default 50)"`
	Offset int    `json:"offset,omitempty" mcp:"Number of clients to skip for pagination"`
}

// AddClientNoteParams for appending a note to a client
type AddClientNoteParams struct {
	ClientID int64  `json:"client_id" mcp:"ID of the client the note belongs to (required)"`
	Note     string `json:"note" mcp:"Note text, 1-1000 characters (required)"`
}

// ListClientNotesParams for listing a client's notes newest-first
type ListClientNotesParams struct {
	ClientID int64 `json:"client_id" mcp:"ID of the client whose notes to list (required)"`
}

// ListInvoicesParams for listing all invoices (no filters)
type ListInvoicesParams struct{}

// GetInvoiceParams for retrieving a single invoice
type GetInvoiceParams struct {
	InvoiceID int64 `json:"invoice_id" mcp:"ID of the invoice to retrieve (required)"`
}

// ListClientInvoicesParams for listing all invoices of one client
type ListClientInvoicesParams struct {
	ClientID int64 `json:"client_id" mcp:"ID of the client whose invoices to list (required)"`
}

// CreateInvoiceParams for creating a new invoice
type CreateInvoiceParams struct {
	ClientID int64  `json:"client_id" mcp:"ID of an existing client (required)"`
	Amount   string `json:"amount" mcp:"Invoice amount as a decimal with up to 2 fraction digits (required)"`
	IssuedAt string `json:"issued_at,omitempty" mcp:"Issue date YYYY-MM-DD (defaults to today)"`
	DueDate  string `json:"due_date,omitempty" mcp:"Due date YYYY-MM-DD"`
	Status   string `json:"status,omitempty" mcp:"Invoice status: pending, paid, canceled (defaults to pending)"`
}

// UpdateInvoiceParams for partially updating an invoice
type UpdateInvoiceParams struct {
	InvoiceID int64   `json:"invoice_id" mcp:"ID of the invoice to update (required)"`
	ClientID  *int64  `json:"client_id,omitempty" mcp:"New client ID (must reference an existing client)"`
	Amount    *string `json:"amount,omitempty" mcp:"New amount as a decimal with up to 2 fraction digits"`
	IssuedAt  *string `json:"issued_at,omitempty" mcp:"New issue date YYYY-MM-DD"`
	DueDate   *string `json:"due_date,omitempty" mcp:"New due date YYYY-MM-DD"`
	Status    *string `json:"status,omitempty" mcp:"New status: pending, paid, canceled"`
}

// DeleteInvoiceParams for deleting an invoice
type DeleteInvoiceParams struct {
	InvoiceID int64 `json:"invoice_id" mcp:"ID of the invoice to delete (required)"`
}

// GenerateReportParams for generating and emailing a billing report
type GenerateReportParams struct {
	ClientName   string `json:"client_name,omitempty" mcp:"Exact client name to scope the report to (case-insensitive)"`
	Period       string `json:"period,omitempty" mcp:"Period substring matched against invoice issue dates, e.g. 2024 or 2024-03"`
	ManagerName  string `json:"manager_name,omitempty" mcp:"Name of the authorized manager recipient"`
	ManagerEmail string `json:"manager_email,omitempty" mcp:"Email of the authorized manager recipient"`
	ReportType   string `json:"report_type" mcp:"Kind of report to produce, e.g. general, executive, delinquency (required)"`
}

// ListReportsParams for listing the persisted report log
type ListReportsParams struct{}

// ListManagersParams for listing the authorized report recipients
type ListManagersParams struct{}

// MCP Tool Response Types

// ClientResponse is the serialized form of a client
type ClientResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	City      *string `json:"city,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// ClientListResponse wraps a list of clients
type ClientListResponse struct {
	Success bool             `json:"success"`
	Clients []ClientResponse `json:"clients"`
	Count   int              `json:"count"`
}

// ClientDetailResponse wraps a single client
type ClientDetailResponse struct {
	Success bool           `json:"success"`
	Client  ClientResponse `json:"client"`
}

// WelcomeEmailResponse reports the outcome of a standalone welcome email
type WelcomeEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ClientWithEmailResponse wraps a created client together with the outcome
// of its welcome email. EmailSent is reported separately so a mail failure
// does not hide that the client row exists.
type ClientWithEmailResponse struct {
	Success    bool           `json:"success"`
	Client     ClientResponse `json:"client"`
	EmailSent  bool           `json:"email_sent"`
	EmailError string         `json:"email_error,omitempty"`
}

// NoteResponse is the serialized form of a client note
type NoteResponse struct {
	ID        int64  `json:"id"`
	ClientID  int64  `json:"client_id"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

// NoteDetailResponse wraps a single note
type NoteDetailResponse struct {
	Success bool         `json:"success"`
	Note    NoteResponse `json:"note"`
}

// NoteListResponse wraps a client's notes
type NoteListResponse struct {
	Success bool           `json:"success"`
	Notes   []NoteResponse `json:"notes"`
	Count   int            `json:"count"`
}

// InvoiceResponse is the serialized form of an invoice
type InvoiceResponse struct {
	ID       int64   `json:"id"`
	ClientID int64   `json:"client_id"`
	Amount   string  `json:"amount"`
	IssuedAt string  `json:"issued_at"`
	DueDate  *string `json:"due_date,omitempty"`
	Status   string  `json:"status"`
}

// InvoiceDetailResponse wraps a single invoice
type InvoiceDetailResponse struct {
	Success bool            `json:"success"`
	Invoice InvoiceResponse `json:"invoice"`
}

// InvoiceListResponse wraps a list of invoices
type InvoiceListResponse struct {
	Success  bool              `json:"success"`
	Invoices []InvoiceResponse `json:"invoices"`
	Count    int               `json:"count"`
}

// DeleteResponse reports the outcome of a delete operation
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ManagerResponse is the serialized form of a manager
type ManagerResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      *string `json:"role,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ManagerListResponse wraps the authorized report recipients
type ManagerListResponse struct {
	Success  bool              `json:"success"`
	Managers []ManagerResponse `json:"managers"`
	Count    int               `json:"count"`
}

// ReportResponse is the serialized form of a persisted report
type ReportResponse struct {
	ID           int64   `json:"id"`
	ClientID     *int64  `json:"client_id,omitempty"`
	ClientName   *string `json:"client_name,omitempty"`
	Period       *string `json:"period,omitempty"`
	ManagerEmail string  `json:"manager_email"`
	ManagerName  string  `json:"manager_name"`
	ReportType   string  `json:"report_type"`
	ReportText   string  `json:"report_text"`
	CreatedAt    string  `json:"created_at"`
}

// ReportListResponse wraps the persisted report log
type ReportListResponse struct {
	Success bool             `json:"success"`
	Reports []ReportResponse `json:"reports"`
	Count   int              `json:"count"`
}

// GenerateReportResponse reports the outcome of the report pipeline
type GenerateReportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Saved is false when the report was generated and emailed but could not
	// be persisted afterwards.
	Saved bool `json:"saved"`
}
