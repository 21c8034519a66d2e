// Package core provides the entry domain model and its validation rules.
//
// This file contains the normalization of raw user input into drafts and
// patches, including amount parsing.
package core

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RawEntry is user input before validation. A nil field was not supplied.
// Amount holds the textual form of either a JSON number or a numeric string.
type RawEntry struct {
	Date        *string
	Category    *string
	Description *string
	Amount      *string
}

// commaDecimal matches the only comma form accepted: one or two decimals.
// "1,000" stays ambiguous with a thousands separator and is rejected.
var commaDecimal = regexp.MustCompile(`^\d+,\d{1,2}$`)

// ParseAmount converts a decimal string to a strictly positive, finite amount.
//
// Dot (12.34) is the decimal separator; a comma is accepted only as 12,3 or
// 12,34. Returns ErrInvalidAmount for unparsable, zero, negative or
// out-of-range values.
//
// Examples:
//
//	ParseAmount("25.50") -> 25.5, nil
//	ParseAmount("4,00")  -> 4, nil
//	ParseAmount("1,000") -> 0, ErrInvalidAmount
//	ParseAmount("0")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if commaDecimal.MatchString(s) {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	f, _ := d.Float64()
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, ErrInvalidAmount
	}
	return f, nil
}

// ParseDraft validates a create request. Every field is required.
func ParseDraft(raw RawEntry) (Draft, error) {
	if raw.Date == nil || raw.Category == nil || raw.Description == nil || raw.Amount == nil {
		return Draft{}, ErrMissingFields
	}

	date, err := ParseDate(*raw.Date)
	if err != nil {
		return Draft{}, err
	}
	amount, err := ParseAmount(*raw.Amount)
	if err != nil {
		return Draft{}, err
	}

	return Draft{
		Date:        date,
		Category:    *raw.Category,
		Description: *raw.Description,
		Amount:      amount,
	}, nil
}

// ParsePatch validates an update request. Only supplied fields are checked.
func ParsePatch(raw RawEntry) (Patch, error) {
	var p Patch

	if raw.Date != nil {
		date, err := ParseDate(*raw.Date)
		if err != nil {
			return Patch{}, err
		}
		p.Date = &date
	}
	if raw.Category != nil {
		c := *raw.Category
		p.Category = &c
	}
	if raw.Description != nil {
		d := *raw.Description
		p.Description = &d
	}
	if raw.Amount != nil {
		amount, err := ParseAmount(*raw.Amount)
		if err != nil {
			return Patch{}, err
		}
		p.Amount = &amount
	}

	return p, nil
}

// ParseRange parses optional inclusive bounds. Empty strings leave the bound
// open.
func ParseRange(start, end string) (DateRange, error) {
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		d, err := ParseDate(s)
		if err != nil {
			return DateRange{}, InvalidField("data_inicio", "invalid date")
		}
		r.Start = d
	}
	if s := strings.TrimSpace(end); s != "" {
		d, err := ParseDate(s)
		if err != nil {
			return DateRange{}, InvalidField("data_fim", "invalid date")
		}
		r.End = d
	}
	return r, nil
}
