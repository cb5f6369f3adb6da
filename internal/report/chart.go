package report

import (
	"bytes"
	"encoding/base64"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/invoicedesk/invoicedesk/models"
)

// StatusChartPNG renders a bar chart of invoice counts per status and
// returns the PNG bytes.
func StatusChartPNG(invoices []models.Invoice) ([]byte, error) {
	counts := map[models.InvoiceStatus]int{}
	for _, inv := range invoices {
		counts[inv.Status]++
	}

	graph := chart.BarChart{
		Title:    "Invoices by status",
		Width:    512,
		Height:   320,
		BarWidth: 80,
		Bars: []chart.Value{
			{Label: "pending", Value: float64(counts[models.StatusPending])},
			{Label: "paid", Value: float64(counts[models.StatusPaid])},
			{Label: "canceled", Value: float64(counts[models.StatusCanceled])},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// inlineChartHTML wraps PNG bytes as a data-URI image tag.
func inlineChartHTML(png []byte) string {
	return fmt.Sprintf(`<p><img src="data:image/png;base64,%s" alt="Invoices by status"/></p>`,
		base64.StdEncoding.EncodeToString(png))
}
