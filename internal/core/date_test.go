package core

import (
	"testing"
)

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantEnd   string
	}{
		{"mid year", 2024, 5, "2024-05-01", "2024-06-01"},
		{"january", 2024, 1, "2024-01-01", "2024-02-01"},
		{"december rolls into next year", 2024, 12, "2024-12-01", "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthWindow(tt.year, tt.month)
			if start.String() != tt.wantStart {
				t.Errorf("start = %s, want %s", start, tt.wantStart)
			}
			if end.String() != tt.wantEnd {
				t.Errorf("end = %s, want %s", end, tt.wantEnd)
			}
		})
	}
}

func TestDateIn(t *testing.T) {
	start, end := MonthWindow(2024, 3)

	tests := []struct {
		name string
		date Date
		want bool
	}{
		{"first day included", NewDate(2024, 3, 1), true},
		{"last day included", NewDate(2024, 3, 31), true},
		{"next month excluded", NewDate(2024, 4, 1), false},
		{"previous month excluded", NewDate(2024, 2, 29), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.In(start, end); got != tt.want {
				t.Errorf("In(%s, %s) = %v, want %v", start, end, got, tt.want)
			}
		})
	}
}

func TestProjectOntoMonth(t *testing.T) {
	tests := []struct {
		name  string
		date  Date
		year  int
		month int
		want  string
	}{
		{"same day kept", NewDate(2024, 1, 15), 2024, 3, "2024-03-15"},
		{"day 31 clamps to feb 29 in leap year", NewDate(2024, 1, 31), 2024, 2, "2024-02-29"},
		{"day 31 clamps to feb 28", NewDate(2023, 1, 31), 2023, 2, "2023-02-28"},
		{"day 31 clamps to 30-day month", NewDate(2024, 1, 31), 2024, 4, "2024-04-30"},
		{"year changes", NewDate(2024, 12, 5), 2025, 1, "2025-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.ProjectOntoMonth(tt.year, tt.month); got.String() != tt.want {
				t.Errorf("ProjectOntoMonth(%d, %d) = %s, want %s", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 6 || d.Day() != 15 {
		t.Errorf("got %d-%d-%d", d.Year(), d.Month(), d.Day())
	}

	for _, bad := range []string{"", "15/06/2024", "2024-13-01", "2024-06-31", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", bad)
		}
	}
}

func TestDateValidate(t *testing.T) {
	if err := (Date{}).Validate(); err == nil {
		t.Error("zero date passed validation")
	}
	if err := NewDate(2024, 1, 1).Validate(); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
}
