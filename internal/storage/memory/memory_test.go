package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/core"
)

func TestInsertFindDelete(t *testing.T) {
	ctx := context.Background()
	gastos := New().Entries(core.Spending)

	e, err := gastos.Insert(ctx, core.Draft{Date: core.NewDate(2024, 1, 10), Category: "Food", Description: "lunch", Amount: 25.5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)

	got, err := gastos.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	require.NoError(t, gastos.Delete(ctx, e.ID))
	_, err = gastos.FindByID(ctx, e.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	// IDs are not reused after delete.
	next, err := gastos.Insert(ctx, core.Draft{Date: core.NewDate(2024, 1, 11), Category: "Food", Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID)
}

func TestInsertRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	gastos := New().Entries(core.Spending)

	_, err := gastos.Insert(ctx, core.Draft{Date: core.NewDate(2024, 1, 10), Amount: 0})
	require.ErrorIs(t, err, core.ErrValidation)

	all, err := gastos.List(ctx, core.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	despesas := New().Entries(core.Bill)

	e, err := despesas.Insert(ctx, core.Draft{Date: core.NewDate(2024, 2, 1), Category: "Moradia", Description: "aluguel", Amount: 1200})
	require.NoError(t, err)

	cat := "Casa"
	got, err := despesas.Update(ctx, e.ID, core.Patch{Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Casa", got.Category)
	assert.InDelta(t, 1200, got.Amount, 1e-9)

	neg := -1.0
	_, err = despesas.Update(ctx, e.ID, core.Patch{Amount: &neg})
	require.ErrorIs(t, err, core.ErrInvalidAmount)
	stored, _ := despesas.FindByID(ctx, e.ID)
	assert.InDelta(t, 1200, stored.Amount, 1e-9)

	_, err = despesas.Update(ctx, 42, core.Patch{Category: &cat})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestListAndAggregates(t *testing.T) {
	ctx := context.Background()
	s := New()
	gastos := s.Entries(core.Spending)

	for _, d := range []core.Draft{
		{Date: core.NewDate(2024, 1, 10), Category: "Food", Description: "a", Amount: 10},
		{Date: core.NewDate(2024, 1, 15), Category: "Transport", Description: "b", Amount: 5},
		{Date: core.NewDate(2024, 1, 10), Category: "Food", Description: "c", Amount: 15},
	} {
		_, err := gastos.Insert(ctx, d)
		require.NoError(t, err)
	}

	all, err := gastos.List(ctx, core.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].Description)
	assert.Equal(t, "a", all[1].Description)
	assert.Equal(t, "c", all[2].Description)

	food, err := gastos.List(ctx, core.Filter{Category: "Food"})
	require.NoError(t, err)
	assert.Len(t, food, 2)

	total, err := gastos.Total(ctx, core.DateRange{})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, total, 1e-9)

	sums, err := gastos.SumByCategory(ctx, core.DateRange{End: core.NewDate(2024, 1, 12)})
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryTotal{{Category: "Food", Total: 25}}, sums)

	bills, err := s.Entries(core.Bill).Total(ctx, core.DateRange{})
	require.NoError(t, err)
	assert.Zero(t, bills)
}

func TestConcurrentInsertsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	gastos := New().Entries(core.Spending)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = gastos.Insert(ctx, core.Draft{Date: core.NewDate(2024, 1, 1), Category: "x", Amount: 1})
		}()
	}
	wg.Wait()

	all, err := gastos.List(ctx, core.Filter{})
	require.NoError(t, err)
	seen := map[int64]bool{}
	for _, e := range all {
		seen[e.ID] = true
	}
	assert.Len(t, seen, 50)
}
