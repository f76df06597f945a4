package payroll

import "github.com/shopspring/decimal"

// Statutory rates. Employee social security is withheld from gross pay; the
// employer rates are cost-to-company and never reduce net pay.
var (
	EmployeeSocialSecurityRate = decimal.RequireFromString("0.07")
	EmployerSocialSecurityRate = decimal.RequireFromString("0.215")
	TrainingLevyRate           = decimal.RequireFromString("0.02")
)

// Proration conventions used by the liquidation rules. They approximate the
// calendar on purpose and must not be replaced with exact day counts.
const (
	DaysPerMonth     = 30
	DaysPerYear      = 365
	MonthsPerYear    = 12
	IndemnityFullYrs = 3
	IndemnityCap     = 5
)

var (
	daysPerMonth  = decimal.NewFromInt(DaysPerMonth)
	daysPerYear   = decimal.NewFromInt(DaysPerYear)
	monthsPerYear = decimal.NewFromInt(MonthsPerYear)

	// After the third year each year of service earns 20 days, i.e. 20/30 of a month.
	indemnityLaterYearMonths = decimal.NewFromInt(20).Div(daysPerMonth)
	indemnityFullYears       = decimal.NewFromInt(IndemnityFullYrs)
	indemnityCapMonths       = decimal.NewFromInt(IndemnityCap)
)

// Bracket is one row of the annual income tax table. Income above From and up
// to To (inclusive) is taxed at Rate on the excess over From, plus Base.
// The last bracket has a zero To and is unbounded.
type Bracket struct {
	From decimal.Decimal
	To   decimal.Decimal
	Rate decimal.Decimal
	Base decimal.Decimal
}

// IncomeTaxBrackets is the progressive annual table. Base of each row equals
// the tax owed at the top of the previous row, which keeps the curve continuous.
var IncomeTaxBrackets = []Bracket{
	{From: decimal.Zero, To: decimal.NewFromInt(100000), Rate: decimal.Zero, Base: decimal.Zero},
	{From: decimal.NewFromInt(100000), To: decimal.NewFromInt(200000), Rate: decimal.RequireFromString("0.15"), Base: decimal.Zero},
	{From: decimal.NewFromInt(200000), To: decimal.NewFromInt(350000), Rate: decimal.RequireFromString("0.20"), Base: decimal.NewFromInt(15000)},
	{From: decimal.NewFromInt(350000), To: decimal.NewFromInt(500000), Rate: decimal.RequireFromString("0.25"), Base: decimal.NewFromInt(45000)},
	{From: decimal.NewFromInt(500000), Rate: decimal.RequireFromString("0.30"), Base: decimal.NewFromInt(82500)},
}

const (
	RecordStatusRecorded = "recorded"

	DefaultPaymentMethod = "transfer"
)
