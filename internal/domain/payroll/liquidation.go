package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiquidationInput carries what an end-of-contract settlement needs.
// AccruedVacationDays is supplied by the caller and may be fractional.
type LiquidationInput struct {
	GrossSalary         decimal.Decimal
	HireDate            time.Time
	EndDate             time.Time
	AccruedVacationDays decimal.Decimal
}

type LiquidationResult struct {
	Tenure        Tenure          `json:"tenure"`
	YearsWorked   decimal.Decimal `json:"yearsWorked"`
	Indemnity     decimal.Decimal `json:"indemnity"`
	VacationPay   decimal.Decimal `json:"vacationPay"`
	Aguinaldo     decimal.Decimal `json:"aguinaldo"`
	AguinaldoDays int             `json:"aguinaldoDays"`
	Total         decimal.Decimal `json:"total"`
}

// VacationPay settles unused vacation at a daily rate of gross/30.
func VacationPay(gross, accruedDays decimal.Decimal) decimal.Decimal {
	return gross.Div(daysPerMonth).Mul(accruedDays)
}

// Indemnity pays one month of gross per year for the first three years and
// 20/30 of a month per year after that, never more than five months in total.
// Fractional years prorate linearly.
func Indemnity(gross, yearsWorked decimal.Decimal) decimal.Decimal {
	return gross.Mul(IndemnityMonths(yearsWorked))
}

func IndemnityMonths(yearsWorked decimal.Decimal) decimal.Decimal {
	months := yearsWorked
	if yearsWorked.GreaterThan(indemnityFullYears) {
		months = indemnityFullYears.Add(yearsWorked.Sub(indemnityFullYears).Mul(indemnityLaterYearMonths))
	}
	return decimal.Min(months, indemnityCapMonths)
}

// AguinaldoPeriodStart returns the 1 December that opens the bonus accrual
// year containing end. The accrual year runs 1 December to 30 November.
func AguinaldoPeriodStart(end time.Time) time.Time {
	end = civilDate(end)
	start := time.Date(end.Year(), time.December, 1, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	return start
}

// AguinaldoDays counts the days of the current accrual year worked up to end,
// starting at the later of the hire date and the accrual year start.
func AguinaldoDays(hire, end time.Time) int {
	start := AguinaldoPeriodStart(end)
	if civilDate(hire).After(start) {
		start = civilDate(hire)
	}
	return DaysBetween(start, end)
}

// Aguinaldo is the year-end bonus owed pro rata: gross × days/365.
func Aguinaldo(gross decimal.Decimal, hire, end time.Time) decimal.Decimal {
	days := decimal.NewFromInt(int64(AguinaldoDays(hire, end)))
	return gross.Mul(days).Div(daysPerYear)
}

// Liquidate computes the settlement without validating its input.
func Liquidate(in LiquidationInput) LiquidationResult {
	tenure := TenureBetween(in.HireDate, in.EndDate)
	years := tenure.YearsWorked()
	indemnity := Indemnity(in.GrossSalary, years)
	vacation := VacationPay(in.GrossSalary, in.AccruedVacationDays)
	bonus := Aguinaldo(in.GrossSalary, in.HireDate, in.EndDate)
	return LiquidationResult{
		Tenure:        tenure,
		YearsWorked:   years,
		Indemnity:     indemnity,
		VacationPay:   vacation,
		Aguinaldo:     bonus,
		AguinaldoDays: AguinaldoDays(in.HireDate, in.EndDate),
		Total:         indemnity.Add(vacation).Add(bonus),
	}
}

// ComputeLiquidation validates the input before computing the settlement.
func ComputeLiquidation(in LiquidationInput) (LiquidationResult, error) {
	if err := in.Validate(); err != nil {
		return LiquidationResult{}, err
	}
	return Liquidate(in), nil
}

func (in LiquidationInput) Validate() error {
	if err := validateGross(in.GrossSalary); err != nil {
		return err
	}
	if in.AccruedVacationDays.IsNegative() {
		return invalid("accruedVacationDays", "must not be negative")
	}
	if in.HireDate.IsZero() {
		return invalid("hireDate", "is required")
	}
	if in.EndDate.IsZero() {
		return invalid("endDate", "is required")
	}
	if civilDate(in.EndDate).Before(civilDate(in.HireDate)) {
		return invalid("endDate", "must be on or after hireDate")
	}
	return nil
}

func (r LiquidationResult) Rounded() LiquidationResult {
	out := r
	out.YearsWorked = r.YearsWorked.Round(4)
	out.Indemnity = roundMoney(r.Indemnity)
	out.VacationPay = roundMoney(r.VacationPay)
	out.Aguinaldo = roundMoney(r.Aguinaldo)
	out.Total = out.Indemnity.Add(out.VacationPay).Add(out.Aguinaldo)
	return out
}
