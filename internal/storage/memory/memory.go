// Package memory keeps entries in process memory. It backs development runs
// and tests where a database file is not wanted.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"contas/internal/core"
	"contas/internal/ports"
)

// Store holds one collection per domain behind a single mutex.
type Store struct {
	mu      sync.Mutex
	entries map[core.Domain]*Entries
}

var (
	_ ports.EntryRepository = (*Entries)(nil)
	_ ports.Pinger          = (*Store)(nil)
)

func New() *Store {
	s := &Store{entries: make(map[core.Domain]*Entries, 2)}
	for _, d := range core.Domains() {
		s.entries[d] = &Entries{store: s, domain: d, items: map[int64]core.Entry{}}
	}
	return s
}

// Entries returns the collection for one domain.
func (s *Store) Entries(d core.Domain) *Entries {
	return s.entries[d]
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Entries is the in-memory counterpart of a domain table. IDs are never
// reused, matching AUTOINCREMENT.
type Entries struct {
	store  *Store
	domain core.Domain
	nextID int64
	items  map[int64]core.Entry
}

func (e *Entries) Domain() core.Domain { return e.domain }

func (e *Entries) Insert(_ context.Context, d core.Draft) (core.Entry, error) {
	if err := d.Validate(); err != nil {
		return core.Entry{}, err
	}
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	e.nextID++
	entry := core.Entry{
		ID:          e.nextID,
		Date:        d.Date,
		Category:    d.Category,
		Description: d.Description,
		Amount:      d.Amount,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	e.items[entry.ID] = entry
	return entry, nil
}

func (e *Entries) FindByID(_ context.Context, id int64) (core.Entry, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	entry, ok := e.items[id]
	if !ok {
		return core.Entry{}, core.NotFoundError(e.domain, id)
	}
	return entry, nil
}

// Update merges p into the stored entry. Nothing is written unless the
// merged entry is valid.
func (e *Entries) Update(_ context.Context, id int64, p core.Patch) (core.Entry, error) {
	if err := p.Validate(); err != nil {
		return core.Entry{}, err
	}
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	current, ok := e.items[id]
	if !ok {
		return core.Entry{}, core.NotFoundError(e.domain, id)
	}
	merged := p.Apply(current)
	if merged.Amount <= 0 {
		return core.Entry{}, core.ErrInvalidAmount
	}
	e.items[id] = merged
	return merged, nil
}

func (e *Entries) Delete(_ context.Context, id int64) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	if _, ok := e.items[id]; !ok {
		return core.NotFoundError(e.domain, id)
	}
	delete(e.items, id)
	return nil
}

func (e *Entries) List(_ context.Context, f core.Filter) ([]core.Entry, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	out := make([]core.Entry, 0, len(e.items))
	for _, entry := range e.items {
		if f.Matches(entry) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (e *Entries) Total(_ context.Context, r core.DateRange) (float64, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	var total float64
	for _, entry := range e.items {
		if r.Contains(entry.Date) {
			total += entry.Amount
		}
	}
	return total, nil
}

// SumByCategory returns totals ordered by category name.
func (e *Entries) SumByCategory(_ context.Context, r core.DateRange) ([]core.CategoryTotal, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	sums := map[string]float64{}
	for _, entry := range e.items {
		if r.Contains(entry.Date) {
			sums[entry.Category] += entry.Amount
		}
	}
	out := make([]core.CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, core.CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}
