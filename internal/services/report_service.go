package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"contas/internal/core"
	"contas/internal/ports"
)

// ReportService computes read-only aggregates across both domains.
type ReportService struct {
	spending ports.EntryAggregator
	bills    ports.EntryAggregator
}

func NewReportService(spending, bills ports.EntryAggregator) *ReportService {
	return &ReportService{spending: spending, bills: bills}
}

// Summary totals both domains over r and derives the balance.
func (s *ReportService) Summary(ctx context.Context, r core.DateRange) (core.Summary, error) {
	var spending, bills float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.spending.Total(gctx, r)
		if err != nil {
			return fmt.Errorf("total gastos: %w", err)
		}
		spending = total
		return nil
	})
	g.Go(func() error {
		total, err := s.bills.Total(gctx, r)
		if err != nil {
			return fmt.Errorf("total despesas: %w", err)
		}
		bills = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, err
	}

	return core.NewSummary(spending, bills), nil
}

// ByCategory returns per-category sums for one domain. Categories without
// entries in r are absent.
func (s *ReportService) ByCategory(ctx context.Context, d core.Domain, r core.DateRange) ([]core.CategoryTotal, error) {
	var agg ports.EntryAggregator
	switch d {
	case core.Spending:
		agg = s.spending
	case core.Bill:
		agg = s.bills
	default:
		return nil, core.InvalidField("domain", fmt.Sprintf("unknown domain %q", d))
	}

	totals, err := agg.SumByCategory(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%s by category: %w", d, err)
	}
	if totals == nil {
		totals = []core.CategoryTotal{}
	}
	return totals, nil
}
