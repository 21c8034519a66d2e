package services

import (
	"context"
	"fmt"
	"log/slog"

	"contas/internal/core"
	"contas/internal/ports"
)

// EntryService runs the CRUD operations of one domain and announces every
// committed change on the optional event publisher.
type EntryService struct {
	store     ports.EntryStore
	publisher ports.EventPublisher
}

// NewEntryService wires a store to an optional publisher. A nil publisher
// disables change events.
func NewEntryService(store ports.EntryStore, publisher ports.EventPublisher) *EntryService {
	return &EntryService{
		store:     store,
		publisher: publisher,
	}
}

// Domain returns the domain served by this service.
func (s *EntryService) Domain() core.Domain {
	return s.store.Domain()
}

// Create validates raw input and stores a new entry.
func (s *EntryService) Create(ctx context.Context, raw core.RawEntry) (core.Entry, error) {
	draft, err := core.ParseDraft(raw)
	if err != nil {
		return core.Entry{}, err
	}

	e, err := s.store.Insert(ctx, draft)
	if err != nil {
		return core.Entry{}, fmt.Errorf("create %s: %w", s.Domain().Singular(), err)
	}

	s.publish(ctx, core.ActionCreated, e.ID)
	return e, nil
}

func (s *EntryService) Get(ctx context.Context, id int64) (core.Entry, error) {
	return s.store.FindByID(ctx, id)
}

// Update applies the supplied fields of raw to entry id. An unknown id is
// reported before any field error; an empty patch returns the entry as is.
func (s *EntryService) Update(ctx context.Context, id int64, raw core.RawEntry) (core.Entry, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update %s: %w", s.Domain().Singular(), err)
	}

	patch, err := core.ParsePatch(raw)
	if err != nil {
		return core.Entry{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	e, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update %s: %w", s.Domain().Singular(), err)
	}

	s.publish(ctx, core.ActionUpdated, id)
	return e, nil
}

func (s *EntryService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.Domain().Singular(), err)
	}

	s.publish(ctx, core.ActionDeleted, id)
	return nil
}

func (s *EntryService) List(ctx context.Context, f core.Filter) ([]core.Entry, error) {
	return s.store.List(ctx, f)
}

// publish never fails the request: the change is already committed.
func (s *EntryService) publish(ctx context.Context, action core.Action, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntryEvent(ctx, s.Domain(), action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"domain", s.Domain(),
			"action", action,
			"id", id,
			"error", err)
	}
}
