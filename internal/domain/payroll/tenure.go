package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenure is elapsed service split into whole years, remaining whole months
// and a day component.
//
// Years and Months are counted independently, so they can disagree at month
// and leap-day boundaries: a hire on 29 Feb 2020 ending 28 Feb 2021 is zero
// years and twelve months, which reduces to zero remainder months.
//
// Days is the total calendar day count modulo 30, not the days left over
// after the last whole month. This reproduces the payroll convention the
// indemnity rule was written against and over-counts by up to 29 days of
// service in some ranges; keep it unless the settlement rules change.
type Tenure struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// TenureBetween measures service from hire to end using calendar dates only.
// When end precedes hire every component is negative.
func TenureBetween(hire, end time.Time) Tenure {
	hire, end = civilDate(hire), civilDate(end)
	if end.Before(hire) {
		t := TenureBetween(end, hire)
		return Tenure{Years: -t.Years, Months: -t.Months, Days: -t.Days}
	}
	return Tenure{
		Years:  fullYearsBetween(hire, end),
		Months: fullMonthsBetween(hire, end) % MonthsPerYear,
		Days:   DaysBetween(hire, end) % DaysPerMonth,
	}
}

// YearsWorked is the fractional tenure fed to the indemnity rule:
// years + months/12 + days/365.
func (t Tenure) YearsWorked() decimal.Decimal {
	return decimal.NewFromInt(int64(t.Years)).
		Add(decimal.NewFromInt(int64(t.Months)).Div(monthsPerYear)).
		Add(decimal.NewFromInt(int64(t.Days)).Div(daysPerYear))
}

// DaysBetween counts whole calendar days from a to b, ignoring time of day
// and zone offsets. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(civilDate(b).Sub(civilDate(a)).Hours() / 24)
}

// fullYearsBetween counts anniversaries reached by end. Dates are compared
// by month and day only, with 29 Feb sorting after 28 Feb.
func fullYearsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return max(years, 0)
}

// fullMonthsBetween counts whole months from start to end, end not before start.
//
// End is moved back by the calendar month difference and the last month only
// counts when the shifted date has reached start. An end of 28 or 29 Feb is
// first pushed past the end of February, and a month-end end date counts as
// a full month when it is exactly one calendar month after start.
func fullMonthsBetween(start, end time.Time) int {
	diff := (end.Year()-start.Year())*MonthsPerYear + int(end.Month()) - int(start.Month())
	if diff < 1 {
		return 0
	}
	ref := end
	if end.Month() == time.February && end.Day() > 27 {
		ref = time.Date(end.Year(), time.February, 30, 0, 0, 0, 0, time.UTC)
	}
	shifted := time.Date(ref.Year(), ref.Month()-time.Month(diff), ref.Day(), 0, 0, 0, 0, time.UTC)
	if shifted.Before(start) && !(diff == 1 && lastDayOfMonth(end) && end.After(start)) {
		diff--
	}
	return diff
}

func lastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

// civilDate drops the clock and zone, keeping the calendar date as written.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
