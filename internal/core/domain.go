package core

import (
	"math"
	"strings"
	"time"
)

const (
	// DateLayout is the wire and storage format for entry dates.
	DateLayout = "2006-01-02"
	// TimestampLayout is the wire and storage format for creation timestamps.
	TimestampLayout = "2006-01-02 15:04:05"
)

const (
	Spending Domain = "gastos"
	Bill     Domain = "despesas"
)

// Categories is the advisory category list offered to clients. It is not
// enforced on write.
var Categories = []string{
	"Alimentação",
	"Transporte",
	"Moradia",
	"Saúde",
	"Educação",
	"Entretenimento",
	"Outros",
}

type (
	// Domain tags one of the two entry collections. Its value doubles as
	// table name and route segment.
	Domain string

	Date struct {
		time.Time
	}

	// Entry is a stored spending or bill record.
	Entry struct {
		ID          int64
		Date        Date
		Category    string
		Description string
		Amount      float64
		CreatedAt   time.Time
	}

	// Draft holds the user-supplied fields of an entry that is about to be
	// inserted. All fields are required.
	Draft struct {
		Date        Date
		Category    string
		Description string
		Amount      float64
	}

	// Patch carries a partial update. Nil fields are left untouched.
	Patch struct {
		Date        *Date
		Category    *string
		Description *string
		Amount      *float64
	}

	// DateRange is an inclusive date interval. A zero bound is open.
	DateRange struct {
		Start Date
		End   Date
	}

	// Filter narrows a List call. Empty Category matches every category.
	Filter struct {
		DateRange
		Category string
	}
)

// Domains returns every known domain in a stable order.
func Domains() []Domain {
	return []Domain{Spending, Bill}
}

// ParseDomain resolves a route segment or flag value to a Domain.
func ParseDomain(s string) (Domain, bool) {
	switch Domain(strings.ToLower(strings.TrimSpace(s))) {
	case Spending:
		return Spending, true
	case Bill:
		return Bill, true
	default:
		return "", false
	}
}

// IsValid reports whether d is one of the known domains.
func (d Domain) IsValid() bool {
	return d == Spending || d == Bill
}

func (d Domain) String() string {
	return string(d)
}

// Table returns the storage table backing the domain.
func (d Domain) Table() string {
	return string(d)
}

// Singular returns the lower-case singular noun ("gasto", "despesa").
func (d Domain) Singular() string {
	switch d {
	case Spending:
		return "gasto"
	case Bill:
		return "despesa"
	default:
		return "entry"
	}
}

// Title returns the capitalized singular noun used in client messages.
func (d Domain) Title() string {
	s := d.Singular()
	return strings.ToUpper(s[:1]) + s[1:]
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Contains reports whether d lies inside the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start.Time) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End.Time) {
		return false
	}
	return true
}

// Matches reports whether e satisfies every constraint of the filter.
func (f Filter) Matches(e Entry) bool {
	if !f.DateRange.Contains(e.Date) {
		return false
	}
	return f.Category == "" || f.Category == e.Category
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Date == nil && p.Category == nil && p.Description == nil && p.Amount == nil
}

// Apply merges the supplied patch fields into e and returns the result.
func (p Patch) Apply(e Entry) Entry {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	return e
}

// Validate checks the write-time invariants of a draft.
func (d Draft) Validate() error {
	if d.Date.IsZero() {
		return ErrInvalidDate
	}
	if !validAmount(d.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the supplied fields of a patch.
func (p Patch) Validate() error {
	if p.Date != nil && p.Date.IsZero() {
		return ErrInvalidDate
	}
	if p.Amount != nil && !validAmount(*p.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

// validAmount rejects zero, negative and non-finite amounts.
func validAmount(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}
