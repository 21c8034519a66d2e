package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contas/internal/core"
	"contas/internal/storage/memory"
)

type failingAggregator struct{ err error }

func (f failingAggregator) Total(context.Context, core.DateRange) (float64, error) {
	return 0, f.err
}

func (f failingAggregator) SumByCategory(context.Context, core.DateRange) ([]core.CategoryTotal, error) {
	return nil, f.err
}

func seed(t *testing.T, svc *EntryService, date, cat, amount string) {
	t.Helper()
	_, err := svc.Create(context.Background(), core.RawEntry{
		Date:        strp(date),
		Category:    strp(cat),
		Description: strp("seed"),
		Amount:      strp(amount),
	})
	require.NoError(t, err)
}

func TestReportService_Summary(t *testing.T) {
	store := memory.New()
	gastos := NewEntryService(store.Entries(core.Spending), nil)
	seed(t, gastos, "2024-01-10", "Food", "25.50")
	seed(t, gastos, "2024-01-15", "Transport", "4.00")

	reports := NewReportService(store.Entries(core.Spending), store.Entries(core.Bill))
	s, err := reports.Summary(context.Background(), core.DateRange{})
	require.NoError(t, err)

	assert.InDelta(t, 29.50, s.TotalSpending, 1e-9)
	assert.Zero(t, s.TotalBills)
	assert.InDelta(t, 29.50, s.Balance, 1e-9)
}

func TestReportService_SummaryKeepsNegativeBalance(t *testing.T) {
	store := memory.New()
	seed(t, NewEntryService(store.Entries(core.Spending), nil), "2024-01-10", "Food", "10")
	seed(t, NewEntryService(store.Entries(core.Bill), nil), "2024-01-10", "Moradia", "100")

	reports := NewReportService(store.Entries(core.Spending), store.Entries(core.Bill))
	s, err := reports.Summary(context.Background(), core.DateRange{})
	require.NoError(t, err)
	assert.InDelta(t, -90.0, s.Balance, 1e-9)
}

func TestReportService_SummaryPropagatesErrors(t *testing.T) {
	boom := core.NewStorageError("sum", errors.New("disk full"))
	reports := NewReportService(memory.New().Entries(core.Spending), failingAggregator{err: boom})

	_, err := reports.Summary(context.Background(), core.DateRange{})
	require.ErrorIs(t, err, core.ErrStorage)
}

func TestReportService_ByCategory(t *testing.T) {
	store := memory.New()
	gastos := NewEntryService(store.Entries(core.Spending), nil)
	seed(t, gastos, "2024-01-10", "Food", "10")
	seed(t, gastos, "2024-01-11", "Food", "15")
	seed(t, gastos, "2024-01-12", "Transport", "5")

	reports := NewReportService(store.Entries(core.Spending), store.Entries(core.Bill))

	totals, err := reports.ByCategory(context.Background(), core.Spending, core.DateRange{})
	require.NoError(t, err)
	got := map[string]float64{}
	for _, ct := range totals {
		got[ct.Category] = ct.Total
	}
	assert.Len(t, got, 2)
	assert.InDelta(t, 25.0, got["Food"], 1e-9)
	assert.InDelta(t, 5.0, got["Transport"], 1e-9)

	bills, err := reports.ByCategory(context.Background(), core.Bill, core.DateRange{})
	require.NoError(t, err)
	assert.NotNil(t, bills)
	assert.Empty(t, bills)

	_, err = reports.ByCategory(context.Background(), core.Domain("outros"), core.DateRange{})
	require.ErrorIs(t, err, core.ErrValidation)
}
