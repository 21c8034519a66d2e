package services

import (
	"context"
	"fmt"
	"log/slog"

	"contas/internal/core"
	"contas/internal/ports"
)

// ExportService copies the entries of one domain to a spreadsheet.
type ExportService struct {
	exporter ports.EntryExporter
}

func NewExportService(exporter ports.EntryExporter) *ExportService {
	return &ExportService{exporter: exporter}
}

// Export lists the entries of store matching f and appends them to sheet.
// It returns the number of exported rows and the range written.
func (s *ExportService) Export(ctx context.Context, store ports.EntryStore, sheet string, f core.Filter) (int, string, error) {
	entries, err := store.List(ctx, f)
	if err != nil {
		return 0, "", fmt.Errorf("list %s: %w", store.Domain(), err)
	}
	if len(entries) == 0 {
		slog.InfoContext(ctx, "Nothing to export", "domain", store.Domain())
		return 0, "", nil
	}

	if sheet == "" {
		sheet = store.Domain().String()
	}
	updated, err := s.exporter.Export(ctx, sheet, entries)
	if err != nil {
		return 0, "", fmt.Errorf("export %s: %w", store.Domain(), err)
	}

	slog.InfoContext(ctx, "Entries exported",
		"domain", store.Domain(),
		"sheet", sheet,
		"rows", len(entries),
		"range", updated)
	return len(entries), updated, nil
}
