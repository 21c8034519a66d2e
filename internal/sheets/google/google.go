package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"contas/internal/core"
	"contas/internal/ports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Exporter appends entries to a spreadsheet.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var _ ports.EntryExporter = (*Exporter)(nil)

// Credentials locates the service account used for export. JSON wins over
// File; with neither set GOOGLE_APPLICATION_CREDENTIALS is tried.
type Credentials struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// New creates an Exporter for spreadsheetID. Callers supply authentication
// through opts.
func New(ctx context.Context, spreadsheetID string, opts ...goption.ClientOption) (*Exporter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// NewWithCredentials creates an Exporter authenticated as a service account.
func NewWithCredentials(ctx context.Context, creds Credentials) (*Exporter, error) {
	if strings.TrimSpace(creds.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	credentialsJSON, err := creds.load(ctx)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	return New(ctx, creds.SpreadsheetID,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// NewFromEnv reads GOOGLE_SPREADSHEET_ID and the service account variables
// from the environment.
func NewFromEnv(ctx context.Context) (*Exporter, error) {
	return NewWithCredentials(ctx, Credentials{
		SpreadsheetID:      os.Getenv("GOOGLE_SPREADSHEET_ID"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	})
}

func (c Credentials) load(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(c.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(c.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		slog.DebugContext(ctx, "Using inline JSON credentials")
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		slog.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Export implements ports.EntryExporter. Rows are appended after the last
// non-empty row of the sheet.
func (e *Exporter) Export(ctx context.Context, sheet string, entries []core.Entry) (string, error) {
	if e.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if strings.TrimSpace(sheet) == "" {
		return "", errors.New("sheet name is required")
	}

	rng := SheetRange(sheet)
	vr := &gsheet.ValueRange{Values: EntryRows(entries)}

	resp, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	written := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		written = resp.Updates.UpdatedRange
	}

	slog.InfoContext(ctx, "Entries appended to sheet",
		"sheet", sheet,
		"rows", len(entries),
		"range", written)

	return written, nil
}

// EntryRows lays entries out as [id, data, categoria, descricao, valor, created_at].
func EntryRows(entries []core.Entry) [][]interface{} {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []interface{}{
			e.ID,
			e.Date.String(),
			e.Category,
			e.Description,
			e.Amount,
			e.CreatedAt.UTC().Format(core.TimestampLayout),
		})
	}
	return rows
}

// SheetRange returns the A1 range covering the exported columns of sheet.
func SheetRange(sheet string) string {
	return fmt.Sprintf("'%s'!A:F", strings.ReplaceAll(sheet, "'", "''"))
}
