package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/internal/mail"
	"github.com/invoicedesk/invoicedesk/internal/report"
	"github.com/invoicedesk/invoicedesk/llm"
	"github.com/invoicedesk/invoicedesk/mcp"
	"github.com/invoicedesk/invoicedesk/store"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdin/stdout",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can work the
invoice desk: search, create, update, and delete clients and invoices, keep
client notes, and generate sanitized HTML reports that are emailed to
authorized managers and archived.

The server runs over stdin/stdout until the client disconnects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	// MCP server inherits verbose flag from root command
}

func runMCPServer(ctx context.Context) error {
	cfg := GetConfig()

	database := db.New(cfg.Database)
	if _, err := database.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect database pool: %w", err)
	}
	defer database.Close()

	clients := store.NewClients(database)
	notes := store.NewNotes(database)
	invoices := store.NewInvoices(database)
	managers := store.NewManagers(database)
	reports := store.NewReports(database)

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	mailer := mail.NewSMTPMailer(cfg.SMTP)
	reportSvc := report.NewService(clients, invoices, managers, reports, provider, mailer)

	serverVersion := cfg.Server.Version
	if serverVersion == "" {
		serverVersion = version
	}
	server := mcp.NewServer(mcp.Deps{
		Clients:   clients,
		Notes:     notes,
		Invoices:  invoices,
		Managers:  managers,
		Reports:   reports,
		ReportSvc: reportSvc,
		Mailer:    mailer,
	}, serverVersion)

	if err := mcp.Run(ctx, server); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
