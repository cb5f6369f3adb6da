// Package report orchestrates the invoice report pipeline: authorize the
// requesting manager, gather invoice data, generate HTML with the model,
// sanitize it, inline a status chart, email it, and persist the result.
package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"

	"github.com/invoicedesk/invoicedesk/internal/mail"
	"github.com/invoicedesk/invoicedesk/llm"
	"github.com/invoicedesk/invoicedesk/models"
	"github.com/invoicedesk/invoicedesk/store"
)

// Request identifies who asked for a report and what slice of the data it
// should cover. The manager may be given by name or by email; ClientName and
// Period are optional filters.
type Request struct {
	ManagerName  string
	ManagerEmail string
	ClientName   string
	Period       string
	ReportType   string
}

// Result describes the outcome of a pipeline run. Saved is false on the
// partial-success path where the email went out but persistence failed.
type Result struct {
	Sent    bool
	Saved   bool
	NoData  bool
	Message string
}

// Service wires the report pipeline's collaborators.
type Service struct {
	clients  store.ClientStore
	invoices store.InvoiceStore
	managers store.ManagerStore
	reports  store.ReportStore
	provider llm.Provider
	mailer   mail.Sender
	chart    func([]models.Invoice) ([]byte, error)
}

// NewService constructs the pipeline. The chart renderer defaults to
// StatusChartPNG and can be swapped in tests.
func NewService(clients store.ClientStore, invoices store.InvoiceStore, managers store.ManagerStore, reports store.ReportStore, provider llm.Provider, mailer mail.Sender) *Service {
	return &Service{
		clients:  clients,
		invoices: invoices,
		managers: managers,
		reports:  reports,
		provider: provider,
		mailer:   mailer,
		chart:    StatusChartPNG,
	}
}

// Generate runs the pipeline end to end. Each stage fails fast: an
// unauthorized manager or unknown client stops the run before any model
// call is made.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	manager, err := s.resolveManager(ctx, req)
	if err != nil {
		return nil, err
	}

	var (
		client   *models.Client
		invoices []models.Invoice
	)
	if req.ClientName != "" {
		client, err = s.clients.GetByName(ctx, nil, req.ClientName)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &ClientNotFoundError{Name: req.ClientName}
			}
			return nil, fmt.Errorf("look up client: %w", err)
		}
		invoices, err = s.invoices.GetByClientID(ctx, nil, client.ID)
	} else {
		invoices, err = s.invoices.GetAll(ctx, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	invoices = filterByPeriod(invoices, req.Period)
	if len(invoices) == 0 {
		return &Result{NoData: true, Message: "no invoices matched the requested scope; no report generated"}, nil
	}

	raw, err := s.provider.GenerateReport(ctx, systemPrompt, BuildPrompt(manager, req.ClientName, req.Period, invoices))
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	body := SanitizeHTML(raw)
	if !hasInlineImage(body) {
		if png, chartErr := s.chart(invoices); chartErr == nil {
			body += inlineChartHTML(png)
		} else if viper.GetBool("verbose") {
			log.Printf("[REPORT] chart rendering failed, sending without chart: %v", chartErr)
		}
	}

	subject := reportSubject(req.ClientName, req.Period)
	if err := s.mailer.SendHTML(ctx, manager.Email, subject, body, ""); err != nil {
		return nil, fmt.Errorf("send report: %w", err)
	}

	kind := req.ReportType
	if kind == "" {
		kind = defaultReportType(req.ClientName)
	}
	create := models.ReportCreate{
		ManagerEmail: manager.Email,
		ManagerName:  manager.Name,
		ReportType:   kind,
		ReportText:   body,
	}
	if client != nil {
		create.ClientID = &client.ID
		create.ClientName = &client.Name
	}
	if req.Period != "" {
		period := req.Period
		create.Period = &period
	}

	if err := s.reports.Save(ctx, nil, create); err != nil {
		if viper.GetBool("verbose") {
			log.Printf("[REPORT] report sent to %s but not saved: %v", manager.Email, err)
		}
		return &Result{Sent: true, Message: fmt.Sprintf("report generated and sent to %s, but could not be saved", manager.Email)}, nil
	}
	return &Result{Sent: true, Saved: true, Message: fmt.Sprintf("report generated, sent to %s, and saved", manager.Email)}, nil
}

// resolveManager authorizes the recipient: the request must name a seeded
// manager, by name or by email.
func (s *Service) resolveManager(ctx context.Context, req Request) (*models.Manager, error) {
	switch {
	case req.ManagerName != "":
		manager, err := s.managers.GetByName(ctx, nil, req.ManagerName)
		if errors.Is(err, store.ErrNotFound) {
			return nil, &UnauthorizedManagerError{Identity: req.ManagerName}
		}
		if err != nil {
			return nil, fmt.Errorf("look up manager: %w", err)
		}
		return manager, nil
	case req.ManagerEmail != "":
		manager, err := s.managers.GetByEmail(ctx, nil, req.ManagerEmail)
		if errors.Is(err, store.ErrNotFound) {
			return nil, &UnauthorizedManagerError{Identity: req.ManagerEmail}
		}
		if err != nil {
			return nil, fmt.Errorf("look up manager: %w", err)
		}
		return manager, nil
	default:
		return nil, fmt.Errorf("either manager_name or manager_email is required")
	}
}

// filterByPeriod keeps invoices whose issue date contains period as a
// substring of its YYYY-MM-DD form, so "2024", "2024-03", and a full date
// all narrow as expected.
func filterByPeriod(invoices []models.Invoice, period string) []models.Invoice {
	if period == "" {
		return invoices
	}
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if strings.Contains(inv.IssuedAt.Format("2006-01-02"), period) {
			out = append(out, inv)
		}
	}
	return out
}

func reportSubject(clientName, period string) string {
	subject := "Invoice report"
	if clientName != "" {
		subject += ": " + clientName
	}
	if period != "" {
		subject += " (" + period + ")"
	}
	return subject
}

func defaultReportType(clientName string) string {
	if clientName != "" {
		return "client"
	}
	return "all_clients"
}
