package backend

import (
	"context"

	"contas/internal/core"
	"contas/internal/ports"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds one repository per domain plus the shared resources
// behind them.
type BackendResult struct {
	Spending ports.EntryRepository
	Bills    ports.EntryRepository
	Pinger   ports.Pinger
	// Publisher is nil when change events are disabled.
	Publisher ports.EventPublisher
	Cleanup   CleanupFunc
}

// Entries returns the repository for d, or nil for an unknown domain.
func (r *BackendResult) Entries(d core.Domain) ports.EntryRepository {
	switch d {
	case core.Spending:
		return r.Spending
	case core.Bill:
		return r.Bills
	default:
		return nil
	}
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Change events, optional for every backend type
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
