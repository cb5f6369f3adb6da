package mcp

// Report tools: generate_report runs the full pipeline; list_reports and
// list_managers are read-only views.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/invoicedesk/invoicedesk/internal/report"
	"github.com/invoicedesk/invoicedesk/store"
	"github.com/invoicedesk/invoicedesk/types"
)

func registerReportTools(server *mcpsdk.Server, deps Deps) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "generate_report",
		Description: "Generate an invoice report, email it to an authorized manager, and save it",
	}, generateReportHandler(deps.ReportSvc))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_reports",
		Description: "List previously generated reports, newest first",
	}, listReportsHandler(deps.Reports))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_managers",
		Description: "List the managers authorized to receive reports",
	}, listManagersHandler(deps.Managers))
}

func generateReportHandler(svc *report.Service) mcpsdk.ToolHandlerFor[types.GenerateReportParams, types.GenerateReportResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.GenerateReportParams]) (*mcpsdk.CallToolResultFor[types.GenerateReportResponse], error) {
		args := params.Arguments
		logToolCall("generate_report", args)

		if strings.TrimSpace(args.ManagerName) == "" && strings.TrimSpace(args.ManagerEmail) == "" {
			return nil, types.NewMCPError("MISSING_MANAGER", "either manager_name or manager_email is required", nil)
		}

		res, err := svc.Generate(ctx, report.Request{
			ManagerName:  strings.TrimSpace(args.ManagerName),
			ManagerEmail: strings.TrimSpace(args.ManagerEmail),
			ClientName:   strings.TrimSpace(args.ClientName),
			Period:       strings.TrimSpace(args.Period),
			ReportType:   strings.TrimSpace(args.ReportType),
		})
		if err != nil {
			logError(err)
			return nil, types.NewMCPError(reportErrorCode(err), err.Error(), nil)
		}

		if res.NoData {
			// Not an error: the request was valid, there was just nothing to
			// report on.
			return okResult(res.Message, types.GenerateReportResponse{
				Success: false,
				Message: res.Message,
			}), nil
		}

		logInfo(fmt.Sprintf("report generated (saved=%t)", res.Saved))
		return okResult(res.Message, types.GenerateReportResponse{
			Success: true,
			Message: res.Message,
			Saved:   res.Saved,
		}), nil
	}
}

// reportErrorCode maps pipeline failures to their error codes. Anything the
// pipeline does not classify falls back to REPORT_FAILED.
func reportErrorCode(err error) string {
	var unauthorized *report.UnauthorizedManagerError
	if errors.As(err, &unauthorized) {
		return "UNAUTHORIZED_MANAGER"
	}
	var notFound *report.ClientNotFoundError
	if errors.As(err, &notFound) {
		return "CLIENT_NOT_FOUND"
	}
	return "REPORT_FAILED"
}

func listReportsHandler(reports store.ReportStore) mcpsdk.ToolHandlerFor[types.ListReportsParams, types.ReportListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ListReportsParams]) (*mcpsdk.CallToolResultFor[types.ReportListResponse], error) {
		logToolCall("list_reports", nil)

		list, err := reports.List(ctx, nil)
		if err != nil {
			logError(err)
			return nil, types.NewMCPError("STORAGE_ERROR", fmt.Sprintf("report listing failed: %v", err), nil)
		}

		resp := types.ReportListResponse{Success: true, Reports: make([]types.ReportResponse, 0, len(list)), Count: len(list)}
		for i := range list {
			resp.Reports = append(resp.Reports, reportToResponse(&list[i]))
		}
		return okResult(fmt.Sprintf("Found %d report(s)", resp.Count), resp), nil
	}
}

func listManagersHandler(managers store.ManagerStore) mcpsdk.ToolHandlerFor[types.ListManagersParams, types.ManagerListResponse] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[types.ListManagersParams]) (*mcpsdk.CallToolResultFor[types.ManagerListResponse], error) {
		logToolCall("list_managers", nil)

		list, err := managers.List(ctx, nil)
		if err != nil {
			logError(err)
			return nil, types.NewMCPError("STORAGE_ERROR", fmt.Sprintf("manager listing failed: %v", err), nil)
		}

		resp := types.ManagerListResponse{Success: true, Managers: make([]types.ManagerResponse, 0, len(list)), Count: len(list)}
		for i := range list {
			resp.Managers = append(resp.Managers, managerToResponse(&list[i]))
		}
		return okResult(fmt.Sprintf("%d manager(s) authorized for reports", resp.Count), resp), nil
	}
}
