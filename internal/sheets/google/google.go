// Package google adapts the Google Sheets API to the sheets ports: a
// timesheet row source and the generated-report log.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"pontber/internal/core"
	ports "pontber/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	dataRange     string
	logSheet      string
}

var (
	_ ports.RowSource         = (*Client)(nil)
	_ ports.ReportLogAppender = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_DATA_RANGE
// (default "Munkalap1!A:P"), GOOGLE_REPORT_LOG_SHEET (default
// "Riport napló").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	dataRange := strings.TrimSpace(os.Getenv("GOOGLE_DATA_RANGE"))
	if dataRange == "" {
		dataRange = "Munkalap1!A:P"
	}
	logSheet := strings.TrimSpace(os.Getenv("GOOGLE_REPORT_LOG_SHEET"))
	if logSheet == "" {
		logSheet = "Riport napló"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dataRange:     dataRange,
		logSheet:      logSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		data, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// ReadRows fetches the configured timesheet range as canonical cells.
func (c *Client) ReadRows(ctx context.Context) ([][]core.Cell, string, error) {
	if c.svc == nil {
		return nil, "", errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.dataRange).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, "", fmt.Errorf("read range %s: %w", c.dataRange, err)
	}

	rows := make([][]core.Cell, len(resp.Values))
	for i, apiRow := range resp.Values {
		cells := make([]core.Cell, len(apiRow))
		for j, v := range apiRow {
			cells[j] = toCell(v)
		}
		rows[i] = cells
	}

	slog.InfoContext(ctx, "Loaded timesheet from Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"range", c.dataRange,
		"rows", len(rows))
	return rows, c.spreadsheetID + "/" + c.dataRange, nil
}

// toCell normalizes an API value to a canonical cell. The values API
// already delivers JSON types; integers arrive as float64.
func toCell(v any) core.Cell {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		return t
	case float64:
		return t
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// AppendReportLog writes one generated-report record to the log sheet.
func (c *Client) AppendReportLog(ctx context.Context, e ports.ReportLogEntry) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	// Find the next free row from the first column's extent.
	rng := fmt.Sprintf("%s!A:A", c.logSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get log sheet extent: %w", err)
	}
	nextRow := len(resp.Values) + 1

	target := fmt.Sprintf("%s!A%d:F%d", c.logSheet, nextRow, nextRow)
	values := &gsheet.ValueRange{Values: [][]any{{
		e.ID, e.Variant, e.Source, e.RowCount, e.PaymentTotal, e.GeneratedAt,
	}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, values).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append report log row: %w", err)
	}

	ref := fmt.Sprintf("%s!A%d", c.logSheet, nextRow)
	slog.InfoContext(ctx, "Report log row appended",
		"id", e.ID,
		"variant", e.Variant,
		"ref", ref)
	return ref, nil
}
