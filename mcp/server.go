// Package mcp exposes the invoice desk over the Model Context Protocol:
// CRUD tools for clients, notes, and invoices, plus the report pipeline.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/invoicedesk/invoicedesk/internal/mail"
	"github.com/invoicedesk/invoicedesk/internal/report"
	"github.com/invoicedesk/invoicedesk/store"
)

// Deps carries everything the tool handlers need. Handlers close over the
// repository interfaces so tests can register against in-memory fakes.
type Deps struct {
	Clients   store.ClientStore
	Notes     store.NoteStore
	Invoices  store.InvoiceStore
	Managers  store.ManagerStore
	Reports   store.ReportStore
	ReportSvc *report.Service
	Mailer    mail.Sender
}

// NewServer builds an MCP server with every tool registered.
func NewServer(deps Deps, version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "invoicedesk",
		Version: version,
	}, &mcpsdk.ServerOptions{})
	Register(server, deps)
	return server
}

// Register wires all tool handlers onto the server.
func Register(server *mcpsdk.Server, deps Deps) {
	registerClientTools(server, deps)
	registerInvoiceTools(server, deps)
	registerReportTools(server, deps)
}

// Run serves MCP over stdio until ctx is canceled.
func Run(ctx context.Context, server *mcpsdk.Server) error {
	logInfo("serving MCP on stdio")
	return server.Run(ctx, mcpsdk.NewStdioTransport())
}

// okResult builds the standard success payload: a human-readable text part
// plus the structured response.
func okResult[T any](text string, payload T) *mcpsdk.CallToolResultFor[T] {
	return &mcpsdk.CallToolResultFor[T]{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
		StructuredContent: payload,
		IsError:           false,
	}
}
