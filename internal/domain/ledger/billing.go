package ledger

import (
	"fmt"
	"time"
)

// Period identifies a billing cycle by the calendar month it is labelled
// with. A period (Y, M) collects card transactions dated after the closing
// day of month M-1 up to and including the closing day of month M, and
// closes on the closing day of month M+1.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod creates a period for the given year and month
func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the period containing the given date's calendar month
func PeriodOf(date time.Time) Period {
	return Period{Year: date.Year(), Month: date.Month()}
}

// AddMonths returns the period shifted by n calendar months
func (p Period) AddMonths(n int) Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Period{Year: t.Year(), Month: t.Month()}
}

// Next returns the following period
func (p Period) Next() Period {
	return p.AddMonths(1)
}

// Previous returns the preceding period
func (p Period) Previous() Period {
	return p.AddMonths(-1)
}

// String returns the period formatted as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ResolvePeriod determines which invoice period a transaction date falls
// into for a card with the given closing day. Dates after the closing day
// belong to the date's own month; dates on or before it belong to the
// previous month.
func ResolvePeriod(date time.Time, closingDay int) Period {
	if date.Day() > closingDay {
		return PeriodOf(date)
	}
	return PeriodOf(date).Previous()
}

// ClosingDate returns the date the invoice for the period stops accepting
// charges: the closing day of the month after the period, clamped to the
// month's length.
func ClosingDate(p Period, closingDay int) time.Time {
	next := p.Next()
	day := clampDay(closingDay, next.Year, next.Month)
	return time.Date(next.Year, next.Month, day, 0, 0, 0, 0, time.UTC)
}

// DueDate returns the date the invoice for the period must be paid. When
// the due day falls after the closing day it lands in the month right
// after the period; otherwise it rolls over one more month so the due date
// always follows the closing date.
func DueDate(p Period, closingDay, dueDay int) time.Time {
	due := p.Next()
	if dueDay <= closingDay {
		due = due.Next()
	}
	day := clampDay(dueDay, due.Year, due.Month)
	return time.Date(due.Year, due.Month, day, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped shifts a date by n calendar months, clamping the day
// to the target month's length. Installment dates use this so a purchase
// on the 31st falls on the last day of shorter months.
func AddMonthsClamped(t time.Time, n int) time.Time {
	p := PeriodOf(t).AddMonths(n)
	day := clampDay(t.Day(), p.Year, p.Month)
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
}

func clampDay(day, year int, month time.Month) int {
	last := daysIn(year, month)
	if day > last {
		return last
	}
	return day
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
