package mcp

// Client tools: search, add, update, delete, list, notes.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/invoicedesk/invoicedesk/internal/mail"
	"github.com/invoicedesk/invoicedesk/models"
	"github.com/invoicedesk/invoicedesk/store"
	"github.com/invoicedesk/invoicedesk/types"
)

func registerClientTools(server *mcpsdk.Server, deps Deps) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "search_client_by_email",
		Description: "Find a client by email address (case-insensitive)",
	}, searchClientByEmailHandler(deps.Clients))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_client",
		Description: "Create a new client with a unique email",
	}, addClientHandler(deps.Clients))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "update_client",
		Description: "Update a client; only the supplied fields change",
	}, updateClientHandler(deps.Clients))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "delete_client",
		Description: "Delete a client and its notes; blocked while invoices reference it",
	}, deleteClientHandler(deps.Clients))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_clients",
		Description: "List clients with optional name/city filters and pagination",
	}, listClientsHandler(deps.Clients))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "send_welcome_email",
		Description: "Send a welcome email to an address",
	}, sendWelcomeEmailHandler(deps.Mailer))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_client_and_send_welcome_email",
		Description: "Create a client and send it a welcome email in one call",
	}, addClientAndSendWelcomeEmailHandler(deps.Clients, deps.Mailer))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "add_client_note",
		Description: "Append a note to an existing client",
	}, addClientNoteHandler(deps.Notes))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_client_notes",
		Description: "List a client's notes, newest first",
	}, listClientNotesHandler(deps.Notes))
}

func searchClientByEmailHandler(clients store.ClientStore) mcpsdk.ToolHandlerFor[types.SearchClientByEmailParams, types.ClientDetailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.SearchClientByEmailParams]) (*mcpsdk.CallToolResultFor[types.ClientDetailResponse], error) {
		args := params.Arguments
		logToolCall("search_client_by_email", args)

		email := strings.TrimSpace(args.Email)
		if email == "" {
			return nil, types.NewMCPError("MISSING_EMAIL", "Email is required", map[string]interface{}{
				"field": "email",
			})
		}

		client, err := clients.GetByEmail(ctx, nil, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, types.NewMCPError("NOT_FOUND", fmt.Sprintf("No client with email %s", email), map[string]interface{}{
					"email": email,
				})
			}
			logError(err)
			return nil, types.NewMCPError("STORAGE_ERROR", fmt.Sprintf("client lookup failed: %v", err), nil)
		}

		return okResult(
			fmt.Sprintf("Found client '%s' (ID %d)", client.Name, client.ID),
			types.ClientDetailResponse{Success: true, Client: clientToResponse(client)},
		), nil
	}
}

func addClientHandler(clients store.ClientStore) mcpsdk.ToolHandlerFor[types.AddClientParams, types.ClientDetailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.AddClientParams]) (*mcpsdk.CallToolResultFor[types.ClientDetailResponse], error) {
		args := params.Arguments
		logToolCall("add_client", args)

		create := models.ClientCreate{
			Name:  strings.TrimSpace(args.Name),
			Email: strings.TrimSpace(args.Email),
		}
		if phone := strings.TrimSpace(args.Phone); phone != "" {
			create.Phone = &phone
		}
		if city := strings.TrimSpace(args.City); city != "" {
			create.City = &city
		}

		client, err := clients.Create(ctx, nil, create)
		if err != nil {
			return nil, wrapStoreError(err, "client", 0)
		}

		logInfo(fmt.Sprintf("created client %d", client.ID))
		return okResult(
			fmt.Sprintf("Created client '%s' with ID %d", client.Name, client.ID),
			types.ClientDetailResponse{Success: true, Client: clientToResponse(client)},
		), nil
	}
}

func welcomeEmail(name string) (subject, htmlBody, textAlt string) {
	subject = fmt.Sprintf("Welcome, %s!", name)
	textAlt = fmt.Sprintf("Hello %s,\n\nThank you for registering as a client. Welcome aboard!\n\nBest regards,\nThe team.", name)
	htmlBody = fmt.Sprintf("<p>Hello %s,</p><p>Thank you for registering as a client. Welcome aboard!</p><p>Best regards,<br>The team.</p>", name)
	return subject, htmlBody, textAlt
}

func sendWelcomeEmailHandler(mailer mail.Sender) mcpsdk.ToolHandlerFor[types.SendWelcomeEmailParams, types.WelcomeEmailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.SendWelcomeEmailParams]) (*mcpsdk.CallToolResultFor[types.WelcomeEmailResponse], error) {
		args := params.Arguments
		logToolCall("send_welcome_email", args)

		email := strings.TrimSpace(args.Email)
		name := strings.TrimSpace(args.Name)
		if email == "" {
			return nil, types.NewMCPError("MISSING_EMAIL", "Email is required", map[string]interface{}{
				"field": "email",
			})
		}
		if name == "" {
			return nil, types.NewMCPError("MISSING_NAME", "Name is required", map[string]interface{}{
				"field": "name",
			})
		}

		subject, htmlBody, textAlt := welcomeEmail(name)
		if err := mailer.SendHTML(ctx, email, subject, htmlBody, textAlt); err != nil {
			logError(err)
			return nil, types.NewMCPError("EMAIL_FAILED", fmt.Sprintf("failed to send welcome email: %v", err), nil)
		}

		return okResult(
			fmt.Sprintf("Welcome email sent to %s", email),
			types.WelcomeEmailResponse{Success: true, Message: fmt.Sprintf("welcome email sent to %s", email)},
		), nil
	}
}

func addClientAndSendWelcomeEmailHandler(clients store.ClientStore, mailer mail.Sender) mcpsdk.ToolHandlerFor[types.AddClientAndSendWelcomeEmailParams, types.ClientWithEmailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.AddClientAndSendWelcomeEmailParams]) (*mcpsdk.CallToolResultFor[types.ClientWithEmailResponse], error) {
		args := params.Arguments
		logToolCall("add_client_and_send_welcome_email", args)

		create := models.ClientCreate{
			Name:  strings.TrimSpace(args.Name),
			Email: strings.TrimSpace(args.Email),
		}
		if phone := strings.TrimSpace(args.Phone); phone != "" {
			create.Phone = &phone
		}
		if city := strings.TrimSpace(args.City); city != "" {
			create.City = &city
		}

		client, err := clients.Create(ctx, nil, create)
		if err != nil {
			return nil, wrapStoreError(err, "client", 0)
		}
		logInfo(fmt.Sprintf("created client %d", client.ID))

		// The client row exists from here on: a mail failure is reported in
		// the response, never raised as a tool error.
		resp := types.ClientWithEmailResponse{Success: true, Client: clientToResponse(client)}
		subject, htmlBody, textAlt := welcomeEmail(client.Name)
		if err := mailer.SendHTML(ctx, client.Email, subject, htmlBody, textAlt); err != nil {
			logError(err)
			resp.EmailError = err.Error()
			return okResult(
				fmt.Sprintf("Created client '%s' with ID %d, but the welcome email failed", client.Name, client.ID),
				resp,
			), nil
		}

		resp.EmailSent = true
		return okResult(
			fmt.Sprintf("Created client '%s' with ID %d and sent the welcome email", client.Name, client.ID),
			resp,
		), nil
	}
}

func updateClientHandler(clients store.ClientStore) mcpsdk.ToolHandlerFor[types.UpdateClientParams, types.ClientDetailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.UpdateClientParams]) (*mcpsdk.CallToolResultFor[types.ClientDetailResponse], error) {
		args := params.Arguments
		logToolCall("update_client", args)

		if args.ClientID <= 0 {
			return nil, types.NewMCPError("MISSING_CLIENT_ID", "client_id is required", nil)
		}

		update := models.ClientUpdate{
			Name:  args.Name,
			Email: args.Email,
			Phone: args.Phone,
			City:  args.City,
		}
		client, err := clients.Update(ctx, nil, args.ClientID, update)
		if err != nil {
			return nil, wrapStoreError(err, "client", args.ClientID)
		}

		return okResult(
			fmt.Sprintf("Updated client %d", client.ID),
			types.ClientDetailResponse{Success: true, Client: clientToResponse(client)},
		), nil
	}
}

func deleteClientHandler(clients store.ClientStore) mcpsdk.ToolHandlerFor[types.DeleteClientParams, types.DeleteResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.DeleteClientParams]) (*mcpsdk.CallToolResultFor[types.DeleteResponse], error) {
		args := params.Arguments
		logToolCall("delete_client", args)

		if args.ClientID <= 0 {
			return nil, types.NewMCPError("MISSING_CLIENT_ID", "client_id is required", nil)
		}

		deleted, err := clients.Delete(ctx, nil, args.ClientID)
		if err != nil {
			return nil, wrapStoreError(err, "client", args.ClientID)
		}
		if !deleted {
			return nil, types.NewMCPError("NOT_FOUND", fmt.Sprintf("client %d not found", args.ClientID), map[string]interface{}{
				"id": args.ClientID,
			})
		}

		logInfo(fmt.Sprintf("deleted client %d", args.ClientID))
		return okResult(
			fmt.Sprintf("Deleted client %d and its notes", args.ClientID),
			types.DeleteResponse{Success: true, Message: fmt.Sprintf("client %d deleted", args.ClientID)},
		), nil
	}
}

func listClientsHandler(clients store.ClientStore) mcpsdk.ToolHandlerFor[types.ListClientsParams, types.ClientListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ListClientsParams]) (*mcpsdk.CallToolResultFor[types.ClientListResponse], error) {
		args := params.Arguments
		logToolCall("list_clients", args)

		filter := store.ClientFilter{
			Name:   strings.TrimSpace(args.Name),
			City:   strings.TrimSpace(args.City),
			Limit:  args.Limit,
			Offset: args.Offset,
		}
		list, err := clients.List(ctx, nil, filter)
		if err != nil {
			logError(err)
			return nil, types.NewMCPError("STORAGE_ERROR", fmt.Sprintf("client listing failed: %v", err), nil)
		}

		resp := types.ClientListResponse{Success: true, Clients: make([]types.ClientResponse, 0, len(list)), Count: len(list)}
		for i := range list {
			resp.Clients = append(resp.Clients, clientToResponse(&list[i]))
		}
		return okResult(fmt.Sprintf("Found %d client(s)", resp.Count), resp), nil
	}
}

func addClientNoteHandler(notes store.NoteStore) mcpsdk.ToolHandlerFor[types.AddClientNoteParams, types.NoteDetailResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.AddClientNoteParams]) (*mcpsdk.CallToolResultFor[types.NoteDetailResponse], error) {
		args := params.Arguments
		logToolCall("add_client_note", args)

		note, err := notes.Add(ctx, nil, models.ClientNoteCreate{
			ClientID: args.ClientID,
			Note:     strings.TrimSpace(args.Note),
		})
		if err != nil {
			return nil, wrapStoreError(err, "client", args.ClientID)
		}

		return okResult(
			fmt.Sprintf("Added note %d to client %d", note.ID, note.ClientID),
			types.NoteDetailResponse{Success: true, Note: noteToResponse(note)},
		), nil
	}
}

func listClientNotesHandler(notes store.NoteStore) mcpsdk.ToolHandlerFor[types.ListClientNotesParams, types.NoteListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ListClientNotesParams]) (*mcpsdk.CallToolResultFor[types.NoteListResponse], error) {
		args := params.Arguments
		logToolCall("list_client_notes", args)

		if args.ClientID <= 0 {
			return nil, types.NewMCPError("MISSING_CLIENT_ID", "client_id is required", nil)
		}

		list, err := notes.List(ctx, nil, args.ClientID)
		if err != nil {
			return nil, wrapStoreError(err, "client", args.ClientID)
		}

		resp := types.NoteListResponse{Success: true, Notes: make([]types.NoteResponse, 0, len(list)), Count: len(list)}
		for i := range list {
			resp.Notes = append(resp.Notes, noteToResponse(&list[i]))
		}
		return okResult(fmt.Sprintf("Client %d has %d note(s)", args.ClientID, resp.Count), resp), nil
	}
}
