package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/core"
	"contas/internal/storage/memory"
)

type recordedEvent struct {
	domain core.Domain
	action core.Action
	id     int64
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *fakePublisher) PublishEntryEvent(_ context.Context, d core.Domain, a core.Action, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{d, a, id})
	return p.err
}

func strp(s string) *string { return &s }

func validRaw() core.RawEntry {
	return core.RawEntry{
		Date:        strp("2024-01-10"),
		Category:    strp("Alimentação"),
		Description: strp("almoço"),
		Amount:      strp("25.50"),
	}
}

func TestEntryService_CreatePublishesEvent(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewEntryService(memory.New().Entries(core.Spending), pub)

	e, err := svc.Create(ctx, validRaw())
	require.NoError(t, err)
	assert.InDelta(t, 25.50, e.Amount, 1e-9)
	assert.Equal(t, []recordedEvent{{core.Spending, core.ActionCreated, e.ID}}, pub.events)
}

func TestEntryService_CreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.RawEntry)
		want   error
	}{
		{"missing valor", func(r *core.RawEntry) { r.Amount = nil }, core.ErrMissingFields},
		{"missing descricao", func(r *core.RawEntry) { r.Description = nil }, core.ErrMissingFields},
		{"zero valor", func(r *core.RawEntry) { r.Amount = strp("0") }, core.ErrInvalidAmount},
		{"negative valor", func(r *core.RawEntry) { r.Amount = strp("-5") }, core.ErrInvalidAmount},
		{"bad date", func(r *core.RawEntry) { r.Date = strp("10/01/2024") }, core.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pub := &fakePublisher{}
			store := memory.New().Entries(core.Spending)
			svc := NewEntryService(store, pub)

			raw := validRaw()
			tt.mutate(&raw)
			_, err := svc.Create(ctx, raw)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, core.ErrValidation)

			all, err := svc.List(ctx, core.Filter{})
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.Empty(t, pub.events)
		})
	}
}

func TestEntryService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewEntryService(memory.New().Entries(core.Bill), pub)

	e, err := svc.Create(ctx, validRaw())
	require.NoError(t, err)

	got, err := svc.Update(ctx, e.ID, core.RawEntry{Description: strp("jantar")})
	require.NoError(t, err)
	assert.Equal(t, "jantar", got.Description)
	assert.InDelta(t, 25.50, got.Amount, 1e-9)

	_, err = svc.Update(ctx, e.ID, core.RawEntry{Amount: strp("0")})
	require.ErrorIs(t, err, core.ErrInvalidAmount)
	stored, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.50, stored.Amount, 1e-9)

	_, err = svc.Update(ctx, 999, core.RawEntry{Description: strp("x")})
	require.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, e.ID))
	require.ErrorIs(t, svc.Delete(ctx, e.ID), core.ErrNotFound)

	actions := make([]core.Action, 0, len(pub.events))
	for _, ev := range pub.events {
		actions = append(actions, ev.action)
	}
	assert.Equal(t, []core.Action{core.ActionCreated, core.ActionUpdated, core.ActionDeleted}, actions)
}

func TestEntryService_UpdateUnknownIDBeforeFieldErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewEntryService(memory.New().Entries(core.Bill), nil)

	_, err := svc.Update(ctx, 42, core.RawEntry{Amount: strp("0")})
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.NotErrorIs(t, err, core.ErrValidation)

	_, err = svc.Update(ctx, 42, core.RawEntry{Date: strp("not-a-date")})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestEntryService_EmptyUpdateIsNoOp(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewEntryService(memory.New().Entries(core.Spending), pub)

	e, err := svc.Create(ctx, validRaw())
	require.NoError(t, err)

	got, err := svc.Update(ctx, e.ID, core.RawEntry{})
	require.NoError(t, err)
	assert.Equal(t, e, got)
	assert.Len(t, pub.events, 1)
}

func TestEntryService_PublishFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewEntryService(memory.New().Entries(core.Spending), pub)

	e, err := svc.Create(ctx, validRaw())
	require.NoError(t, err)

	_, err = svc.Get(ctx, e.ID)
	require.NoError(t, err)
}

func TestEntryService_NilPublisher(t *testing.T) {
	svc := NewEntryService(memory.New().Entries(core.Spending), nil)

	_, err := svc.Create(context.Background(), validRaw())
	require.NoError(t, err)
	assert.Equal(t, core.Spending, svc.Domain())
}
