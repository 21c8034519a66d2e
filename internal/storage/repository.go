package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"contas/internal/core"
	"contas/internal/ports"

	_ "modernc.org/sqlite"
)

// SQLiteRepository owns the database handle shared by both entry tables.
type SQLiteRepository struct {
	db      *sql.DB
	entries map[core.Domain]*EntryRepository
}

// Ensure interface conformance
var (
	_ ports.EntryRepository = (*EntryRepository)(nil)
	_ ports.Pinger          = (*SQLiteRepository)(nil)
)

// dsn adds the connection pragmas every handle needs.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		entries: make(map[core.Domain]*EntryRepository, 2),
	}
	for _, d := range core.Domains() {
		repo.entries[d] = &EntryRepository{
			domain:  d,
			db:      db,
			queries: New(db, d.Table()),
		}
	}

	return repo, nil
}

// Entries returns the repository for one domain.
func (r *SQLiteRepository) Entries(d core.Domain) *EntryRepository {
	return r.entries[d]
}

// Ping implements ports.Pinger
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return core.NewStorageError("ping", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// EntryRepository stores the records of a single domain table.
type EntryRepository struct {
	domain  core.Domain
	db      *sql.DB
	queries *Queries
}

// Domain implements ports.EntryStore
func (r *EntryRepository) Domain() core.Domain {
	return r.domain
}

// Insert implements ports.EntryStore
func (r *EntryRepository) Insert(ctx context.Context, d core.Draft) (core.Entry, error) {
	if err := d.Validate(); err != nil {
		return core.Entry{}, err
	}

	row, err := r.queries.CreateEntry(ctx, CreateEntryParams{
		Data:      d.Date.String(),
		Categoria: d.Category,
		Descricao: d.Description,
		Valor:     d.Amount,
		CreatedAt: time.Now().UTC().Format(core.TimestampLayout),
	})
	if err != nil {
		return core.Entry{}, core.NewStorageError("insert "+r.domain.Table(), err)
	}

	e, err := toCore(row)
	if err != nil {
		return core.Entry{}, err
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"domain", r.domain,
		"id", e.ID,
		"category", e.Category,
		"amount", e.Amount,
		"date", e.Date.String())

	return e, nil
}

// FindByID implements ports.EntryStore
func (r *EntryRepository) FindByID(ctx context.Context, id int64) (core.Entry, error) {
	row, err := r.queries.GetEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, core.NotFoundError(r.domain, id)
	}
	if err != nil {
		return core.Entry{}, core.NewStorageError("get "+r.domain.Table(), err)
	}
	return toCore(row)
}

// Update implements ports.EntryStore. The read-merge-write runs in one
// transaction; any failure leaves the stored row untouched.
func (r *EntryRepository) Update(ctx context.Context, id int64, p core.Patch) (core.Entry, error) {
	if err := p.Validate(); err != nil {
		return core.Entry{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Entry{}, core.NewStorageError("begin update", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	current, err := qtx.GetEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, core.NotFoundError(r.domain, id)
	}
	if err != nil {
		return core.Entry{}, core.NewStorageError("get "+r.domain.Table(), err)
	}

	existing, err := toCore(current)
	if err != nil {
		return core.Entry{}, err
	}
	merged := p.Apply(existing)
	if merged.Amount <= 0 {
		return core.Entry{}, core.ErrInvalidAmount
	}

	row, err := qtx.UpdateEntry(ctx, UpdateEntryParams{
		ID:        id,
		Data:      merged.Date.String(),
		Categoria: merged.Category,
		Descricao: merged.Description,
		Valor:     merged.Amount,
	})
	if err != nil {
		return core.Entry{}, core.NewStorageError("update "+r.domain.Table(), err)
	}

	if err := tx.Commit(); err != nil {
		return core.Entry{}, core.NewStorageError("commit update", err)
	}

	slog.InfoContext(ctx, "Entry updated in SQLite", "domain", r.domain, "id", id)
	return toCore(row)
}

// Delete implements ports.EntryStore
func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteEntry(ctx, id)
	if err != nil {
		return core.NewStorageError("delete "+r.domain.Table(), err)
	}
	if n == 0 {
		return core.NotFoundError(r.domain, id)
	}

	slog.InfoContext(ctx, "Entry deleted from SQLite", "domain", r.domain, "id", id)
	return nil
}

// List implements ports.EntryStore
func (r *EntryRepository) List(ctx context.Context, f core.Filter) ([]core.Entry, error) {
	rows, err := r.queries.ListEntries(ctx, EntryFilterParams{
		DataInicio: f.Start.String(),
		DataFim:    f.End.String(),
		Categoria:  f.Category,
	})
	if err != nil {
		return nil, core.NewStorageError("list "+r.domain.Table(), err)
	}

	entries := make([]core.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := toCore(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Total implements ports.EntryAggregator
func (r *EntryRepository) Total(ctx context.Context, rng core.DateRange) (float64, error) {
	total, err := r.queries.GetTotal(ctx, rng.Start.String(), rng.End.String())
	if err != nil {
		return 0, core.NewStorageError("sum "+r.domain.Table(), err)
	}
	return total, nil
}

// SumByCategory implements ports.EntryAggregator
func (r *EntryRepository) SumByCategory(ctx context.Context, rng core.DateRange) ([]core.CategoryTotal, error) {
	sums, err := r.queries.GetCategorySums(ctx, rng.Start.String(), rng.End.String())
	if err != nil {
		return nil, core.NewStorageError("sum by category "+r.domain.Table(), err)
	}

	out := make([]core.CategoryTotal, 0, len(sums))
	for _, s := range sums {
		out = append(out, core.CategoryTotal{Category: s.Categoria, Total: s.Total})
	}
	return out, nil
}

func toCore(row Entry) (core.Entry, error) {
	date, err := core.ParseDate(row.Data)
	if err != nil {
		return core.Entry{}, core.NewStorageError("decode data", fmt.Errorf("row %d: bad date %q", row.ID, row.Data))
	}
	created, err := time.ParseInLocation(core.TimestampLayout, row.CreatedAt, time.UTC)
	if err != nil {
		return core.Entry{}, core.NewStorageError("decode created_at", fmt.Errorf("row %d: %w", row.ID, err))
	}
	return core.Entry{
		ID:          row.ID,
		Date:        date,
		Category:    row.Categoria,
		Description: row.Descricao,
		Amount:      row.Valor,
		CreatedAt:   created,
	}, nil
}
