package payroll

import "github.com/shopspring/decimal"

// WithholdingResult is the employee side of a monthly payroll computation.
// Net is not guaranteed to be non-negative for unvalidated inputs.
type WithholdingResult struct {
	Gross                  decimal.Decimal `json:"gross"`
	SocialSecurityEmployee decimal.Decimal `json:"socialSecurityEmployee"`
	IncomeTax              decimal.Decimal `json:"incomeTax"`
	Net                    decimal.Decimal `json:"net"`
}

// EmployerCost is paid on top of gross salary and does not affect net pay.
type EmployerCost struct {
	EmployerSocialSecurity decimal.Decimal `json:"employerSocialSecurity"`
	TrainingLevy           decimal.Decimal `json:"trainingLevy"`
	Total                  decimal.Decimal `json:"total"`
}

func EmployeeSocialSecurity(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(EmployeeSocialSecurityRate)
}

// AnnualIncomeTax applies the bracket table to an annual taxable income.
func AnnualIncomeTax(annual decimal.Decimal) decimal.Decimal {
	for _, b := range IncomeTaxBrackets {
		if b.To.IsZero() || annual.LessThanOrEqual(b.To) {
			if annual.LessThanOrEqual(b.From) {
				return b.Base
			}
			return annual.Sub(b.From).Mul(b.Rate).Add(b.Base)
		}
	}
	return decimal.Zero
}

// IncomeTax returns the monthly income tax withholding. Taxable income is
// gross minus employee social security, annualized over twelve months.
func IncomeTax(gross decimal.Decimal) decimal.Decimal {
	taxable := gross.Sub(EmployeeSocialSecurity(gross))
	annual := taxable.Mul(monthsPerYear)
	return AnnualIncomeTax(annual).Div(monthsPerYear)
}

func NetSalary(gross decimal.Decimal) decimal.Decimal {
	return gross.Sub(EmployeeSocialSecurity(gross)).Sub(IncomeTax(gross))
}

func Withholding(gross decimal.Decimal) WithholdingResult {
	ss := EmployeeSocialSecurity(gross)
	tax := IncomeTax(gross)
	return WithholdingResult{
		Gross:                  gross,
		SocialSecurityEmployee: ss,
		IncomeTax:              tax,
		Net:                    gross.Sub(ss).Sub(tax),
	}
}

func EmployerSocialSecurity(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(EmployerSocialSecurityRate)
}

func TrainingLevy(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(TrainingLevyRate)
}

func EmployerCosts(gross decimal.Decimal) EmployerCost {
	ss := EmployerSocialSecurity(gross)
	levy := TrainingLevy(gross)
	return EmployerCost{
		EmployerSocialSecurity: ss,
		TrainingLevy:           levy,
		Total:                  ss.Add(levy),
	}
}

// Rounded returns the result at two fraction digits. Net is derived from the
// rounded components so a stored breakdown always adds up.
func (r WithholdingResult) Rounded() WithholdingResult {
	gross := roundMoney(r.Gross)
	ss := roundMoney(r.SocialSecurityEmployee)
	tax := roundMoney(r.IncomeTax)
	return WithholdingResult{
		Gross:                  gross,
		SocialSecurityEmployee: ss,
		IncomeTax:              tax,
		Net:                    gross.Sub(ss).Sub(tax),
	}
}

func (c EmployerCost) Rounded() EmployerCost {
	ss := roundMoney(c.EmployerSocialSecurity)
	levy := roundMoney(c.TrainingLevy)
	return EmployerCost{EmployerSocialSecurity: ss, TrainingLevy: levy, Total: ss.Add(levy)}
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeWithholding is Withholding behind input validation.
func ComputeWithholding(gross decimal.Decimal) (WithholdingResult, error) {
	if err := validateGross(gross); err != nil {
		return WithholdingResult{}, err
	}
	return Withholding(gross), nil
}

// ComputeEmployerCosts is EmployerCosts behind input validation.
func ComputeEmployerCosts(gross decimal.Decimal) (EmployerCost, error) {
	if err := validateGross(gross); err != nil {
		return EmployerCost{}, err
	}
	return EmployerCosts(gross), nil
}

func validateGross(gross decimal.Decimal) error {
	if gross.IsNegative() {
		return invalid("grossSalary", "must not be negative")
	}
	return nil
}
