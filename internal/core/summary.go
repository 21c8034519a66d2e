package core

// CategoryTotal is the sum of amounts for one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Summary compares spending against bills over a date range.
type Summary struct {
	TotalSpending float64
	TotalBills    float64
	Balance       float64
}

// NewSummary builds a Summary. Balance is spending minus bills.
func NewSummary(spending, bills float64) Summary {
	return Summary{
		TotalSpending: spending,
		TotalBills:    bills,
		Balance:       spending - bills,
	}
}

// Action names a committed change to an entry.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)
