package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one recorded monthly salary payment. The breakdown is stored as
// computed at recording time and never recomputed.
type Record struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employeeId"`
	EmployeeName           string          `json:"employeeName"`
	TransactionID          string          `json:"transactionId"`
	Month                  int             `json:"month"`
	Year                   int             `json:"year"`
	Gross                  decimal.Decimal `json:"gross"`
	SocialSecurityEmployee decimal.Decimal `json:"socialSecurityEmployee"`
	IncomeTax              decimal.Decimal `json:"incomeTax"`
	Net                    decimal.Decimal `json:"net"`
	AmountPaid             decimal.Decimal `json:"amountPaid"`
	EmployerSocialSecurity decimal.Decimal `json:"employerSocialSecurity"`
	TrainingLevy           decimal.Decimal `json:"trainingLevy"`
	PaymentMethod          string          `json:"paymentMethod"`
	Status                 string          `json:"status"`
	RecordedBy             string          `json:"recordedBy,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
}

// Breakdown is serialized into the ledger entry reference for display and audit.
type Breakdown struct {
	Gross          decimal.Decimal `json:"gross"`
	SocialSecurity decimal.Decimal `json:"socialSecurity"`
	IncomeTax      decimal.Decimal `json:"incomeTax"`
	Net            decimal.Decimal `json:"net"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
}

type RecordRequest struct {
	EmployeeID    string
	Month         int
	Year          int
	PaymentMethod string
	// NetOverride replaces the computed net as the amount paid when set.
	NetOverride *decimal.Decimal
	RecordedBy  string
}

type RecordFilter struct {
	EmployeeID string
	Month      int
	Year       int
	Limit      int
	Offset     int
}

// Preview is a payroll line for one employee without persistence.
type Preview struct {
	EmployeeID   string            `json:"employeeId"`
	EmployeeName string            `json:"employeeName"`
	Withholding  WithholdingResult `json:"withholding"`
	EmployerCost EmployerCost      `json:"employerCost"`
}

type BatchPreview struct {
	Lines             []Preview       `json:"lines"`
	TotalGross        decimal.Decimal `json:"totalGross"`
	TotalNet          decimal.Decimal `json:"totalNet"`
	TotalEmployerCost decimal.Decimal `json:"totalEmployerCost"`
}
