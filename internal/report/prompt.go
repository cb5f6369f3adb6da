package report

import (
	"fmt"
	"strings"

	"github.com/invoicedesk/invoicedesk/models"
)

const systemPrompt = `You are a billing analyst writing internal invoice reports.
Write the report as a self-contained HTML fragment (headings, paragraphs, tables).
Summarize totals, the pending/paid/canceled breakdown, and anything notable
about payment timing. Do not include scripts, styles, or external resources.
Do not invent invoices that are not in the data provided.`

// BuildPrompt renders the invoice data and request context into the user
// prompt sent to the model.
func BuildPrompt(manager *models.Manager, clientName, period string, invoices []models.Invoice) string {
	var b strings.Builder

	b.WriteString("Prepare an invoice report.\n\n")
	fmt.Fprintf(&b, "Requested by: %s <%s>\n", manager.Name, manager.Email)
	if clientName != "" {
		fmt.Fprintf(&b, "Client: %s\n", clientName)
	} else {
		b.WriteString("Client: all clients\n")
	}
	if period != "" {
		fmt.Fprintf(&b, "Period: %s\n", period)
	} else {
		b.WriteString("Period: all time\n")
	}

	fmt.Fprintf(&b, "\nInvoices (%d):\n", len(invoices))
	for _, inv := range invoices {
		fmt.Fprintf(&b, "- id=%d amount=%s status=%s issued_at=%s\n",
			inv.ID, inv.Amount, inv.Status, inv.IssuedAt.Format("2006-01-02"))
	}
	return b.String()
}
