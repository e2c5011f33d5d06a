package core

import (
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		month   int
		day     int
		year    int
	}{
		{name: "valid date", input: "04/15/2025", month: 4, day: 15, year: 2025},
		{name: "december", input: "12/31/1999", month: 12, day: 31, year: 1999},
		{name: "month out of range", input: "13/01/2025", wantErr: true},
		{name: "day out of range", input: "02/30/2025", wantErr: true},
		{name: "wrong separator", input: "04-15-2025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if d.Month() != tt.month || d.Day() != tt.day || d.Year() != tt.year {
				t.Errorf("ParseDate(%q) = %d/%d/%d, want %d/%d/%d",
					tt.input, d.Month(), d.Day(), d.Year(), tt.month, tt.day, tt.year)
			}
		})
	}
}

func TestDate_String_RoundTrip(t *testing.T) {
	d := NewDate(2025, 4, 15)
	if got := d.String(); got != "04/15/2025" {
		t.Errorf("String() = %q, want %q", got, "04/15/2025")
	}

	parsed, err := ParseDate(d.String())
	if err != nil {
		t.Fatalf("round trip parse failed: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("round trip changed the date: %v != %v", parsed, d)
	}
}

func TestDate_String_Zero(t *testing.T) {
	var d Date
	if got := d.String(); got != "" {
		t.Errorf("zero date String() = %q, want empty", got)
	}
}

func TestDate_MonthKey(t *testing.T) {
	if got := NewDate(2025, 4, 15).MonthKey(); got != "04/2025" {
		t.Errorf("MonthKey() = %q, want %q", got, "04/2025")
	}
	if got := NewDate(987, 12, 1).MonthKey(); got != "12/0987" {
		t.Errorf("MonthKey() = %q, want %q", got, "12/0987")
	}
}

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		month   int
		year    int
		wantErr bool
	}{
		{name: "valid", input: "04/2025", month: 4, year: 2025},
		{name: "valid with spaces", input: " 12/2024 ", month: 12, year: 2024},
		{name: "month too high", input: "13/2025", wantErr: true},
		{name: "month zero", input: "00/2025", wantErr: true},
		{name: "missing year", input: "04", wantErr: true},
		{name: "extra parts", input: "04/15/2025", wantErr: true},
		{name: "non numeric month", input: "ab/2025", wantErr: true},
		{name: "non numeric year", input: "04/20xx", wantErr: true},
		{name: "negative year", input: "04/-1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, year, err := ParseMonthKey(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMonthKey(%q) expected error, got %d/%d", tt.input, month, year)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonthKey(%q) unexpected error: %v", tt.input, err)
			}
			if month != tt.month || year != tt.year {
				t.Errorf("ParseMonthKey(%q) = %d/%d, want %d/%d", tt.input, month, year, tt.month, tt.year)
			}
		})
	}
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		month     int
		year      int
		wantMonth int
		wantYear  int
	}{
		{name: "mid year", month: 6, year: 2025, wantMonth: 5, wantYear: 2025},
		{name: "january rolls the year back", month: 1, year: 2025, wantMonth: 12, wantYear: 2024},
		{name: "february", month: 2, year: 2000, wantMonth: 1, wantYear: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, year := PreviousMonth(tt.month, tt.year)
			if month != tt.wantMonth || year != tt.wantYear {
				t.Errorf("PreviousMonth(%d, %d) = %d/%d, want %d/%d",
					tt.month, tt.year, month, year, tt.wantMonth, tt.wantYear)
			}
		})
	}
}
