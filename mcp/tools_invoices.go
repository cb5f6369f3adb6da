package mcp

// Invoice tools: list, get, per-client list, create, update, delete.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/invoicedesk/invoicedesk/models"
	"github.com/invoicedesk/invoicedesk/store"
	"github.com/invoicedesk/invoicedesk/types"
)

func registerInvoiceTools(server *mcpsdk.Server, deps Deps) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_invoices",
		Description: "List all invoices",
	}, listInvoicesHandler(deps.Invoices))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_invoice",
		Description: "Retrieve a single invoice by ID",
	}, getInvoiceHandler(deps.Invoices))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_client_invoices",
		Description: "List all invoices belonging to one client",
	}, listClientInvoicesHandler(deps.Clients, deps.Invoices))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "create_invoice",
		Description: "Create an invoice for an existing client",
	}, createInvoiceHandler(deps.Invoices))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "update_invoice",
		Description: "Update an invoice; only the supplied fields change",
	}, updateInvoiceHandler(deps.Invoices))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "delete_invoice",
		Description: "Delete an invoice by ID",
	}, deleteInvoiceHandler(deps.Invoices))
}

func listInvoicesHandler(invoices store.InvoiceStore) mcpsdk.ToolHandlerFor[types.ListInvoicesParams, types.InvoiceListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ListInvoicesParams]) (*mcpsdk.CallToolResultFor[types.InvoiceListResponse], error) {
		logToolCall("list_invoices", nil)

		list, err := invoices.GetAll(ctx, nil)
		if err != nil {
			logError(err)
			return nil, types.NewMCPError("STORAGE_ERROR", fmt.Sprintf("invoice listing failed: %v", err), nil)
		}

		resp := types.InvoiceListResponse{Success: true, Invoices: make([]types.InvoiceResponse, 0, len(list)), Count: len(list)}
		for i := range list {
			resp.Invoices = append(resp.Invoices, invoiceToResponse(&list[i]))
		}
		return okResult(fmt.Sprintf("Found %d invoice(s)", resp.Count), resp), nil
	}
}

func getInvoiceHandler(invoices store.InvoiceStore) mcpsdk.ToolHandlerFor[types.GetInvoiceParams, types.InvoiceDetailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.GetInvoiceParams]) (*mcpsdk.CallToolResultFor[types.InvoiceDetailResponse], error) {
		args := params.Arguments
		logToolCall("get_invoice", args)

		if args.InvoiceID <= 0 {
			return nil, types.NewMCPError("MISSING_INVOICE_ID", "invoice_id is required", nil)
		}

		invoice, err := invoices.GetByID(ctx, nil, args.InvoiceID)
		if err != nil {
			return nil, wrapStoreError(err, "invoice", args.InvoiceID)
		}

		return okResult(
			fmt.Sprintf("Invoice %d: %s (%s)", invoice.ID, invoice.Amount, invoice.Status),
			types.InvoiceDetailResponse{Success: true, Invoice: invoiceToResponse(invoice)},
		), nil
	}
}

func listClientInvoicesHandler(clients store.ClientStore, invoices store.InvoiceStore) mcpsdk.ToolHandlerFor[types.ListClientInvoicesParams, types.InvoiceListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ListClientInvoicesParams]) (*mcpsdk.CallToolResultFor[types.InvoiceListResponse], error) {
		args := params.Arguments
		logToolCall("list_client_invoices", args)

		if args.ClientID <= 0 {
			return nil, types.NewMCPError("MISSING_CLIENT_ID", "client_id is required", nil)
		}

		// The client check separates "client does not exist" from "client
		// exists and has no invoices".
		if _, err := clients.GetByID(ctx, nil, args.ClientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, types.NewMCPError("NOT_FOUND", fmt.Sprintf("client %d not found", args.ClientID), map[string]interface{}{
					"id": args.ClientID,
				})
			}
			logError(err)
			return nil, types.NewMCPError("STORAGE_ERROR", fmt.Sprintf("client lookup failed: %v", err), nil)
		}

		list, err := invoices.GetByClientID(ctx, nil, args.ClientID)
		if err != nil {
			return nil, wrapStoreError(err, "client", args.ClientID)
		}

		resp := types.InvoiceListResponse{Success: true, Invoices: make([]types.InvoiceResponse, 0, len(list)), Count: len(list)}
		for i := range list {
			resp.Invoices = append(resp.Invoices, invoiceToResponse(&list[i]))
		}
		return okResult(fmt.Sprintf("Client %d has %d invoice(s)", args.ClientID, resp.Count), resp), nil
	}
}

func createInvoiceHandler(invoices store.InvoiceStore) mcpsdk.ToolHandlerFor[types.CreateInvoiceParams, types.InvoiceDetailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.CreateInvoiceParams]) (*mcpsdk.CallToolResultFor[types.InvoiceDetailResponse], error) {
		args := params.Arguments
		logToolCall("create_invoice", args)

		create := models.InvoiceCreate{
			ClientID: args.ClientID,
			Amount:   strings.TrimSpace(args.Amount),
		}
		if args.IssuedAt != "" {
			issued, err := parseDate("issued_at", args.IssuedAt)
			if err != nil {
				return nil, err
			}
			create.IssuedAt = &issued
		}
		if args.DueDate != "" {
			due, err := parseDate("due_date", args.DueDate)
			if err != nil {
				return nil, err
			}
			create.DueDate = &due
		}
		if status := strings.TrimSpace(args.Status); status != "" {
			if !models.ValidStatus(status) {
				return nil, types.NewMCPError("INVALID_STATUS", fmt.Sprintf("status must be pending, paid, or canceled, got %q", status), map[string]interface{}{
					"value":        status,
					"valid_values": []string{"pending", "paid", "canceled"},
				})
			}
			create.Status = &status
		}

		invoice, err := invoices.CreateWithVerification(ctx, nil, create)
		if err != nil {
			return nil, wrapStoreError(err, "invoice", 0)
		}

		logInfo(fmt.Sprintf("created invoice %d for client %d", invoice.ID, invoice.ClientID))
		return okResult(
			fmt.Sprintf("Created invoice %d for client %d (%s)", invoice.ID, invoice.ClientID, invoice.Amount),
			types.InvoiceDetailResponse{Success: true, Invoice: invoiceToResponse(invoice)},
		), nil
	}
}

func updateInvoiceHandler(invoices store.InvoiceStore) mcpsdk.ToolHandlerFor[types.UpdateInvoiceParams, types.InvoiceDetailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.UpdateInvoiceParams]) (*mcpsdk.CallToolResultFor[types.InvoiceDetailResponse], error) {
		args := params.Arguments
		logToolCall("update_invoice", args)

		if args.InvoiceID <= 0 {
			return nil, types.NewMCPError("MISSING_INVOICE_ID", "invoice_id is required", nil)
		}

		update := models.InvoiceUpdate{
			ClientID: args.ClientID,
			Amount:   args.Amount,
			Status:   args.Status,
		}
		if args.IssuedAt != nil {
			issued, err := parseDate("issued_at", *args.IssuedAt)
			if err != nil {
				return nil, err
			}
			update.IssuedAt = &issued
		}
		if args.DueDate != nil {
			due, err := parseDate("due_date", *args.DueDate)
			if err != nil {
				return nil, err
			}
			update.DueDate = &due
		}
		if args.Status != nil && !models.ValidStatus(*args.Status) {
			return nil, types.NewMCPError("INVALID_STATUS", fmt.Sprintf("status must be pending, paid, or canceled, got %q", *args.Status), map[string]interface{}{
				"value":        *args.Status,
				"valid_values": []string{"pending", "paid", "canceled"},
			})
		}

		invoice, err := invoices.Update(ctx, nil, args.InvoiceID, update)
		if err != nil {
			return nil, wrapStoreError(err, "invoice", args.InvoiceID)
		}

		return okResult(
			fmt.Sprintf("Updated invoice %d", invoice.ID),
			types.InvoiceDetailResponse{Success: true, Invoice: invoiceToResponse(invoice)},
		), nil
	}
}

func deleteInvoiceHandler(invoices store.InvoiceStore) mcpsdk.ToolHandlerFor[types.DeleteInvoiceParams, types.DeleteResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.DeleteInvoiceParams]) (*mcpsdk.CallToolResultFor[types.DeleteResponse], error) {
		args := params.Arguments
		logToolCall("delete_invoice", args)

		if args.InvoiceID <= 0 {
			return nil, types.NewMCPError("MISSING_INVOICE_ID", "invoice_id is required", nil)
		}

		deleted, err := invoices.Delete(ctx, nil, args.InvoiceID)
		if err != nil {
			return nil, wrapStoreError(err, "invoice", args.InvoiceID)
		}
		if !deleted {
			return nil, types.NewMCPError("NOT_FOUND", fmt.Sprintf("invoice %d not found", args.InvoiceID), map[string]interface{}{
				"id": args.InvoiceID,
			})
		}

		logInfo(fmt.Sprintf("deleted invoice %d", args.InvoiceID))
		return okResult(
			fmt.Sprintf("Deleted invoice %d", args.InvoiceID),
			types.DeleteResponse{Success: true, Message: fmt.Sprintf("invoice %d deleted", args.InvoiceID)},
		), nil
	}
}
