package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/invoicedesk/invoicedesk/models"
	"github.com/invoicedesk/invoicedesk/store"
	"github.com/invoicedesk/invoicedesk/types"
)

const dateLayout = "2006-01-02"

// wrapStoreError shapes repository errors into structured MCP errors. The
// caller supplies the entity word and id used in the message.
func wrapStoreError(err error, entity string, id int64) error {
	var verr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return types.NewMCPError("NOT_FOUND", fmt.Sprintf("%s %d not found", entity, id), map[string]interface{}{
			"id": id,
		})
	case errors.As(err, &verr):
		return types.NewMCPError("VALIDATION_FAILED", verr.Error(), nil)
	default:
		logError(err)
		return types.NewMCPError("STORAGE_ERROR", fmt.Sprintf("operation on %s failed: %v", entity, err), nil)
	}
}

// parseDate parses a YYYY-MM-DD tool argument.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, types.NewMCPError("INVALID_DATE", fmt.Sprintf("%s must be in YYYY-MM-DD format, got %q", field, value), map[string]interface{}{
			"field": field,
			"value": value,
		})
	}
	return t, nil
}

func clientToResponse(c *models.Client) types.ClientResponse {
	return types.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		City:      c.City,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func noteToResponse(n *models.ClientNote) types.NoteResponse {
	return types.NoteResponse{
		ID:        n.ID,
		ClientID:  n.ClientID,
		Note:      n.Note,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

func invoiceToResponse(inv *models.Invoice) types.InvoiceResponse {
	resp := types.InvoiceResponse{
		ID:       inv.ID,
		ClientID: inv.ClientID,
		Amount:   inv.Amount,
		IssuedAt: inv.IssuedAt.Format(dateLayout),
		Status:   string(inv.Status),
	}
	if inv.DueDate != nil {
		due := inv.DueDate.Format(dateLayout)
		resp.DueDate = &due
	}
	return resp
}

func managerToResponse(m *models.Manager) types.ManagerResponse {
	return types.ManagerResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func reportToResponse(r *models.Report) types.ReportResponse {
	return types.ReportResponse{
		ID:           r.ID,
		ClientID:     r.ClientID,
		ClientName:   r.ClientName,
		Period:       r.Period,
		ManagerEmail: r.ManagerEmail,
		ManagerName:  r.ManagerName,
		ReportType:   r.ReportType,
		ReportText:   r.ReportText,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
