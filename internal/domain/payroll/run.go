package payroll

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// RunRequest records a whole month of payroll.
type RunRequest struct {
	Month         int
	Year          int
	PaymentMethod string
	RecordedBy    string
}

type RunFailure struct {
	EmployeeID string `json:"employeeId"`
	Error      string `json:"error"`
}

// RunSummary is what a payroll run leaves behind in its job record.
type RunSummary struct {
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Recorded   []string        `json:"recorded"`
	Skipped    []string        `json:"skipped"`
	Failed     []RunFailure    `json:"failed"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalGross decimal.Decimal `json:"totalGross"`
}

func (r RunRequest) Validate() error {
	return RecordRequest{EmployeeID: "-", Month: r.Month, Year: r.Year}.validate()
}

// RunPayroll records the period for every active employee. Employees already
// paid for the period are skipped; other per-employee failures are collected
// and do not stop the run. Only a failure to list employees or a cancelled
// context aborts it.
func (s *Service) RunPayroll(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := req.Validate(); err != nil {
		return RunSummary{}, err
	}
	employees, err := s.store.ActiveEmployees(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })

	summary := RunSummary{Month: req.Month, Year: req.Year, Recorded: []string{}, Skipped: []string{}, Failed: []RunFailure{}}
	for _, e := range employees {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rec, err := s.RecordPayroll(ctx, RecordRequest{
			EmployeeID:    e.ID,
			Month:         req.Month,
			Year:          req.Year,
			PaymentMethod: req.PaymentMethod,
			RecordedBy:    req.RecordedBy,
		})
		switch {
		case errors.Is(err, ErrPayrollAlreadyRecorded):
			summary.Skipped = append(summary.Skipped, e.ID)
		case err != nil:
			summary.Failed = append(summary.Failed, RunFailure{EmployeeID: e.ID, Error: err.Error()})
		default:
			summary.Recorded = append(summary.Recorded, e.ID)
			summary.TotalPaid = summary.TotalPaid.Add(rec.AmountPaid)
			summary.TotalGross = summary.TotalGross.Add(rec.Gross)
		}
	}
	return summary, nil
}
