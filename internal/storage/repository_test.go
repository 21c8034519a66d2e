package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func draft(date, cat, desc string, amount float64) core.Draft {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Draft{Date: d, Category: cat, Description: desc, Amount: amount}
}

func TestInsertAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	gastos := newTestRepo(t).Entries(core.Spending)

	a, err := gastos.Insert(ctx, draft("2024-01-10", "Food", "lunch", 25.50))
	require.NoError(t, err)
	b, err := gastos.Insert(ctx, draft("2024-01-15", "Transport", "bus", 4.00))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.InDelta(t, 25.50, a.Amount, 1e-9)
	assert.Equal(t, "2024-01-10", a.Date.String())
	assert.False(t, a.CreatedAt.IsZero())
}

func TestInsertRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	gastos := newTestRepo(t).Entries(core.Spending)

	for _, amount := range []float64{0, -3} {
		_, err := gastos.Insert(ctx, draft("2024-01-10", "Food", "x", amount))
		require.ErrorIs(t, err, core.ErrInvalidAmount)
	}

	all, err := gastos.List(ctx, core.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDomainsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	g, err := repo.Entries(core.Spending).Insert(ctx, draft("2024-01-10", "Food", "lunch", 10))
	require.NoError(t, err)

	_, err = repo.Entries(core.Bill).FindByID(ctx, g.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	bills, err := repo.Entries(core.Bill).List(ctx, core.Filter{})
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestUpdateMergesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	despesas := newTestRepo(t).Entries(core.Bill)

	e, err := despesas.Insert(ctx, draft("2024-02-01", "Moradia", "aluguel", 1200))
	require.NoError(t, err)

	desc := "aluguel fevereiro"
	got, err := despesas.Update(ctx, e.ID, core.Patch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "aluguel fevereiro", got.Description)
	assert.InDelta(t, 1200, got.Amount, 1e-9)
	assert.Equal(t, "Moradia", got.Category)
	assert.Equal(t, e.CreatedAt, got.CreatedAt)
}

func TestUpdateInvalidAmountKeepsRow(t *testing.T) {
	ctx := context.Background()
	despesas := newTestRepo(t).Entries(core.Bill)

	e, err := despesas.Insert(ctx, draft("2024-02-01", "Moradia", "aluguel", 1200))
	require.NoError(t, err)

	zero := 0.0
	_, err = despesas.Update(ctx, e.ID, core.Patch{Amount: &zero})
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	stored, err := despesas.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1200, stored.Amount, 1e-9)
}

func TestUpdateAndDeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	gastos := newTestRepo(t).Entries(core.Spending)

	cat := "Food"
	_, err := gastos.Update(ctx, 999, core.Patch{Category: &cat})
	require.ErrorIs(t, err, core.ErrNotFound)

	require.ErrorIs(t, gastos.Delete(ctx, 999), core.ErrNotFound)
}

func TestDeleteThenFind(t *testing.T) {
	ctx := context.Background()
	gastos := newTestRepo(t).Entries(core.Spending)

	e, err := gastos.Insert(ctx, draft("2024-01-10", "Food", "lunch", 25.50))
	require.NoError(t, err)

	require.NoError(t, gastos.Delete(ctx, e.ID))

	_, err = gastos.FindByID(ctx, e.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.ErrorIs(t, gastos.Delete(ctx, e.ID), core.ErrNotFound)
}

func TestListOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	gastos := newTestRepo(t).Entries(core.Spending)

	seed := []core.Draft{
		draft("2024-01-10", "Food", "a", 1),
		draft("2024-01-15", "Transport", "b", 2),
		draft("2024-01-10", "Food", "c", 3),
		draft("2024-01-20", "Food", "d", 4),
	}
	for _, d := range seed {
		_, err := gastos.Insert(ctx, d)
		require.NoError(t, err)
	}

	all, err := gastos.List(ctx, core.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	descs := []string{all[0].Description, all[1].Description, all[2].Description, all[3].Description}
	assert.Equal(t, []string{"d", "b", "a", "c"}, descs)

	day := core.NewDate(2024, 1, 10)
	sameDay, err := gastos.List(ctx, core.Filter{DateRange: core.DateRange{Start: day, End: day}})
	require.NoError(t, err)
	require.Len(t, sameDay, 2)
	for _, e := range sameDay {
		assert.Equal(t, "2024-01-10", e.Date.String())
	}

	food, err := gastos.List(ctx, core.Filter{Category: "Food", DateRange: core.DateRange{Start: core.NewDate(2024, 1, 11)}})
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.Equal(t, "d", food[0].Description)

	// Every listed record round-trips through FindByID.
	for _, e := range all {
		got, err := gastos.FindByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()
	gastos := newTestRepo(t).Entries(core.Spending)

	total, err := gastos.Total(ctx, core.DateRange{})
	require.NoError(t, err)
	assert.Zero(t, total)

	for _, d := range []core.Draft{
		draft("2024-01-10", "Food", "a", 10.00),
		draft("2024-01-11", "Food", "b", 15.00),
		draft("2024-01-12", "Transport", "c", 5.00),
	} {
		_, err := gastos.Insert(ctx, d)
		require.NoError(t, err)
	}

	total, err = gastos.Total(ctx, core.DateRange{})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, total, 1e-9)

	total, err = gastos.Total(ctx, core.DateRange{End: core.NewDate(2024, 1, 10)})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, total, 1e-9)

	sums, err := gastos.SumByCategory(ctx, core.DateRange{})
	require.NoError(t, err)
	got := map[string]float64{}
	for _, s := range sums {
		got[s.Category] = s.Total
	}
	assert.Len(t, got, 2)
	assert.InDelta(t, 25.0, got["Food"], 1e-9)
	assert.InDelta(t, 5.0, got["Transport"], 1e-9)
}

func TestMigrationVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(path))
	// Second run is a no-op.
	require.NoError(t, RunMigrations(path))

	v, dirty, err := MigrationVersion(path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), v)
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Ping(context.Background()))
}
