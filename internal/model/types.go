// Package model contains the domain and wire types for the ledger engine.
// All monetary and quantity values use shopspring decimals so that arithmetic
// stays exact; binary floats are never used for money.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The API contract serialises every numeric field as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

// Market identifies the exchange a symbol trades on.
type Market string

// Currency identifies the cash currency of a funding group or transaction.
type Currency string

// TaxStatus marks whether a transaction has been tax-settled.
type TaxStatus string

const (
	MarketJP Market = "JP"
	MarketUS Market = "US"

	CurrencyJPY Currency = "JPY"
	CurrencyUSD Currency = "USD"

	TaxStatusYes TaxStatus = "Y"
	TaxStatusNo  TaxStatus = "N"
)

// Valid reports whether the market is one of the supported values.
func (m Market) Valid() bool {
	return m == MarketJP || m == MarketUS
}

// Valid reports whether the currency is one of the supported values.
func (c Currency) Valid() bool {
	return c == CurrencyJPY || c == CurrencyUSD
}

// Valid reports whether the tax status is one of the supported values.
func (s TaxStatus) Valid() bool {
	return s == TaxStatusYes || s == TaxStatusNo
}

// Currencies lists the supported currencies in stable output order.
func Currencies() []Currency {
	return []Currency{CurrencyJPY, CurrencyUSD}
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date that marshals as "YYYY-MM-DD".
// Trade dates and settlement dates carry no time-of-day component.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t.UTC()}, nil
}

// String renders the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// DaysUntil returns the number of whole days between d and other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected quoted string", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
