package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabucount/kabucount/internal/model"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format. Stored
// columns use the short form; RFC3339 covers rows written by older tooling.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// parseDate parses a stored date column into a model.Date.
func parseDate(str string) (model.Date, error) {
	t, err := ParseTime(str)
	if err != nil {
		return model.Date{}, err
	}
	return model.DateOf(t), nil
}

// parseDecimal parses a stored TEXT decimal column.
func parseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", str, err)
	}
	return d, nil
}

// nullableString converts an optional string to a driver-friendly value.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// nullableDecimal converts an optional decimal to a driver-friendly value.
func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
