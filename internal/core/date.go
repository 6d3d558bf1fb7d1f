package core

import (
	"time"
)

// dateLayout is the wire and storage format for all dates.
const dateLayout = "2006-01-02"

// Date is a calendar day without a time component. The zero value is the
// zero time and is treated as unset.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Year returns the calendar year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the calendar month as an int.
func (d Date) Month() int { return int(d.Time.Month()) }

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// MonthWindow returns the half-open interval [start, end) covering the
// given month: start is the first day of the month, end the first day of
// the next month. December rolls over into January of the next year.
func MonthWindow(year, month int) (start, end Date) {
	start = NewDate(year, month, 1)
	if month == 12 {
		end = NewDate(year+1, 1, 1)
	} else {
		end = NewDate(year, month+1, 1)
	}
	return start, end
}

// In reports whether d falls inside the half-open interval [start, end).
func (d Date) In(start, end Date) bool {
	return !d.Time.Before(start.Time) && d.Time.Before(end.Time)
}

// lastDayOfMonth returns the number of days in the given month.
func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ProjectOntoMonth moves d onto the given month keeping the day of the
// month. A day past the end of the target month is clamped to its last
// day, so a bill due on the 31st lands on Feb 28 rather than spilling
// into March.
func (d Date) ProjectOntoMonth(year, month int) Date {
	day := d.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}
