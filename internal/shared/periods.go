package shared

import (
	"fmt"
	"strconv"
	"time"
)

// Period identifies one calendar month of a settlement cycle.
type Period struct {
	Month time.Month
	Year  int
}

// NewPeriod validates and builds a period key.
func NewPeriod(month time.Month, year int) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, NewValidationError("month", fmt.Sprintf("invalid month %d", month))
	}
	if year < 1900 || year > 2200 {
		return Period{}, NewValidationError("year", fmt.Sprintf("invalid year %d", year))
	}
	return Period{Month: month, Year: year}, nil
}

// Contains reports whether t falls inside the period's calendar month.
func (p Period) Contains(t time.Time) bool {
	return t.Month() == p.Month && t.Year() == p.Year
}

// Key renders the sortable "2006-01" form used in cache keys and storage.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Label renders the human-readable period name, e.g. "Marzo 2025". Months
// outside the calendar fall back to the numeric form so a directly
// constructed Period never panics.
func (p Period) Label() string {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Sprintf("%d %d", int(p.Month), p.Year)
	}
	return fmt.Sprintf("%s %d", monthNames[p.Month-1], p.Year)
}

// ParsePeriod reads month and year from their query/path string forms.
func ParsePeriod(monthStr, yearStr string) (Period, error) {
	m, err := strconv.Atoi(monthStr)
	if err != nil {
		return Period{}, NewValidationError("month", "must be a number between 1 and 12")
	}
	y, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, NewValidationError("year", "must be a number")
	}
	return NewPeriod(time.Month(m), y)
}

// Before reports whether p precedes other chronologically.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}
