package http

import (
	"net/http"

	"contas/internal/core"
	"contas/internal/log"
)

type summaryResponse struct {
	TotalSpending float64 `json:"total_gastos"`
	TotalBills    float64 `json:"total_despesas"`
	Balance       float64 `json:"saldo"`
}

type categoryTotalResponse struct {
	Category string  `json:"categoria"`
	Total    float64 `json:"total"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseRangeParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, "", log.OpSummary, err, "Invalid data provided")
		return
	}

	sum, err := s.services.Reports.Summary(r.Context(), rng)
	if err != nil {
		s.writeError(w, r, "", log.OpSummary, err, "Failed to build summary")
		return
	}

	NewJSONResponse().Body(summaryResponse{
		TotalSpending: sum.TotalSpending,
		TotalBills:    sum.TotalBills,
		Balance:       sum.Balance,
	}).Write(w)
}

func (s *Server) handleByCategory(d core.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := ParseRangeParams(r.URL.Query())
		if err != nil {
			s.writeError(w, r, d, log.OpSummary, err, "Invalid data provided")
			return
		}

		totals, err := s.services.Reports.ByCategory(r.Context(), d, rng)
		if err != nil {
			s.writeError(w, r, d, log.OpSummary, err, "Failed to build category report")
			return
		}

		out := make([]categoryTotalResponse, 0, len(totals))
		for _, t := range totals {
			out = append(out, categoryTotalResponse{Category: t.Category, Total: t.Total})
		}
		NewJSONResponse().Body(out).Write(w)
	}
}
