package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

// SheetsWriter is the subset of the Sheets client used by the export tool
type SheetsWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]interface{}) error
	ClearValues(ctx context.Context, spreadsheetID, rng string) error
}

// SheetRow defines a row to write into Sheets
type SheetRow struct {
	Title    string `json:"title,omitempty" jsonschema:"Job title text"`
	Company  string `json:"company,omitempty" jsonschema:"Company name"`
	Location string `json:"location,omitempty" jsonschema:"Location text"`
	URL      string `json:"url,omitempty" jsonschema:"Application URL"`
	Source   string `json:"source,omitempty" jsonschema:"Where the posting came from"`
	Match    int    `json:"match,omitempty" jsonschema:"Skill match percentage"`
	Status   string `json:"status,omitempty" jsonschema:"Pipeline status e.g. applied/interviewing"`
	Notes    string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

// SheetTarget points at a spreadsheet tab
type SheetTarget struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty" jsonschema:"Google Sheets document ID, defaults to the configured one"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, defaults to Sheet1"`
	Range         string `json:"range,omitempty" jsonschema:"Optional A1 range override"`
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	JobIDs   []string    `json:"job_ids,omitempty" jsonschema:"Local postings to export"`
	Skills   []string    `json:"skills,omitempty" jsonschema:"Skills used to score exported postings"`
	Rows     []SheetRow  `json:"rows,omitempty" jsonschema:"Explicit rows to write in addition to job_ids"`
	Upsert   bool        `json:"upsert,omitempty" jsonschema:"Overwrite from row 2 (true) or append (false)"`
	ClearTab bool        `json:"clear_tab,omitempty" jsonschema:"If true, clears the tab before writing"`
	Sheet    SheetTarget `json:"sheet,omitempty" jsonschema:"Destination sheet information"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string   `json:"spreadsheet_id"`
	Tab           string   `json:"tab"`
	WrittenRows   int      `json:"written_rows"`
	Mode          string   `json:"mode"`
	Skipped       []string `json:"skipped,omitempty"`
	CompletedAt   string   `json:"completed_at"`
	Message       string   `json:"message,omitempty"`
}

type sheetsHandler struct {
	writer        SheetsWriter
	svc           job.Service
	spreadsheetID string
	logger        *logging.Logger
	now           func() time.Time
}

// WithSheetsExport registers the sheets_export tool. writer may be nil when
// Sheets credentials are not configured; the tool then reports an error.
func WithSheetsExport(writer SheetsWriter, svc job.Service, defaultSpreadsheetID string) Option {
	return func(reg *registry) {
		h := &sheetsHandler{
			writer:        writer,
			svc:           svc,
			spreadsheetID: defaultSpreadsheetID,
			logger:        reg.logger,
			now:           time.Now,
		}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export local postings (by id) or explicit rows to a Google Sheets tab",
		}, h.handle)
	}
}

func (h *sheetsHandler) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, SheetsExportResult, error) {
	result := SheetsExportResult{
		SpreadsheetID: params.Sheet.SpreadsheetID,
		Tab:           params.Sheet.Tab,
		Mode:          "append",
	}
	if result.SpreadsheetID == "" {
		result.SpreadsheetID = h.spreadsheetID
	}
	if result.Tab == "" {
		result.Tab = "Sheet1"
	}
	if params.Upsert {
		result.Mode = "upsert"
	}

	if h.writer == nil {
		return nil, result, errors.New("sheets: client not configured (GOOGLE_SHEETS_CREDENTIALS not set)")
	}
	if result.SpreadsheetID == "" {
		return nil, result, errors.New("sheets: spreadsheet_id is required")
	}

	rows := append([]SheetRow(nil), params.Rows...)
	for _, id := range params.JobIDs {
		if h.svc == nil {
			return nil, result, errors.New("job service not configured")
		}
		p, err := h.svc.Lookup(ctx, id, params.Skills)
		if err != nil {
			h.logger.Warn("sheets_export skipped job", "id", id, "err", err)
			result.Skipped = append(result.Skipped, id)
			continue
		}
		rows = append(rows, SheetRow{
			Title:    p.Title,
			Company:  p.Company,
			Location: p.Location,
			URL:      p.RedirectURL,
			Source:   string(p.Source),
			Match:    p.MatchPercentage,
		})
	}

	result.CompletedAt = h.now().UTC().Format(time.RFC3339)
	if len(rows) == 0 {
		result.Message = "no rows to export"
		return nil, result, nil
	}

	if params.ClearTab {
		if err := h.writer.ClearValues(ctx, result.SpreadsheetID, result.Tab+"!A2:Z"); err != nil {
			return nil, result, fmt.Errorf("sheets: failed to clear sheet: %w", err)
		}
	}

	rng := params.Sheet.Range
	values := rowsToValues(rows, result.CompletedAt)
	if params.Upsert {
		if rng == "" {
			rng = result.Tab + "!A2"
		}
		if err := h.writer.UpdateValues(ctx, result.SpreadsheetID, rng, values); err != nil {
			return nil, result, fmt.Errorf("sheets: failed to upsert rows: %w", err)
		}
	} else {
		if rng == "" {
			rng = result.Tab + "!A1"
		}
		if err := h.writer.AppendValues(ctx, result.SpreadsheetID, rng, values); err != nil {
			return nil, result, fmt.Errorf("sheets: failed to append rows: %w", err)
		}
	}

	result.WrittenRows = len(rows)
	result.Message = fmt.Sprintf("exported %d row(s)", result.WrittenRows)
	return nil, result, nil
}

func rowsToValues(rows []SheetRow, exportedAt string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = []interface{}{
			row.Title,
			row.Company,
			row.Location,
			row.URL,
			row.Source,
			strconv.Itoa(row.Match),
			row.Status,
			row.Notes,
			exportedAt,
		}
	}
	return values
}
