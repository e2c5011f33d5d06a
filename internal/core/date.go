package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// wireDateLayout is the external date format used everywhere on the wire:
// in stored rows and in rendered report lines.
const wireDateLayout = "01/02/2006"

// Date is a calendar date. The wire format is MM/DD/YYYY; parsing happens
// once at the boundary and all grouping logic works on the structured value.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a MM/DD/YYYY string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date back into the wire format. Zero dates render empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(wireDateLayout)
}

// MonthKey returns the MM/YYYY bucketing key for the date.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%02d/%04d", int(d.Time.Month()), d.Time.Year())
}

// Month returns the month as an int in 1..12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// ParseMonthKey parses a strict MM/YYYY argument. The month must be in
// 1..12; nothing is queried for an out-of-range month.
func ParseMonthKey(s string) (month, year int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidMonth
	}
	month, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrInvalidMonth
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, ErrInvalidMonth
	}
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return 0, 0, ErrInvalidMonth
	}
	return month, year, nil
}

// PreviousMonth returns the month preceding the given one, rolling the year
// back across the January boundary.
func PreviousMonth(month, year int) (int, int) {
	if month > 1 {
		return month - 1, year
	}
	return 12, year - 1
}
