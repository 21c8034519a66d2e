package ports

import (
	"context"

	"contas/internal/core"
)

// Ports for outbound adapters.
type (
	// EntryStore persists the records of a single domain.
	EntryStore interface {
		// Domain returns the domain tag the store was built for.
		Domain() core.Domain
		Insert(ctx context.Context, d core.Draft) (core.Entry, error)
		FindByID(ctx context.Context, id int64) (core.Entry, error)
		Update(ctx context.Context, id int64, p core.Patch) (core.Entry, error)
		Delete(ctx context.Context, id int64) error
		// List returns matching entries, newest date first, ties by id.
		List(ctx context.Context, f core.Filter) ([]core.Entry, error)
	}

	// EntryAggregator computes sums over a domain's records.
	EntryAggregator interface {
		Total(ctx context.Context, r core.DateRange) (float64, error)
		SumByCategory(ctx context.Context, r core.DateRange) ([]core.CategoryTotal, error)
	}

	// EntryRepository is the full contract a storage backend provides per domain.
	EntryRepository interface {
		EntryStore
		EntryAggregator
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// EventPublisher announces committed changes to other systems.
	EventPublisher interface {
		PublishEntryEvent(ctx context.Context, d core.Domain, action core.Action, id int64) error
	}

	// EntryExporter copies entries to an external spreadsheet.
	EntryExporter interface {
		// Export appends entries to the named sheet and returns the written range.
		Export(ctx context.Context, sheet string, entries []core.Entry) (string, error)
	}
)
