package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/domain/staff"
)

type Service struct {
	store    StoreAPI
	currency string
	now      func() time.Time
	previews singleflight.Group
}

func NewService(store StoreAPI, currency string) *Service {
	return &Service{store: store, currency: currency, now: time.Now}
}

func (s *Service) Currency() string {
	return s.currency
}

// RecordPayroll computes the employee's withholdings from the current gross
// salary and books the net as a payroll expense in the ledger.
func (s *Service) RecordPayroll(ctx context.Context, req RecordRequest) (Record, error) {
	if err := req.validate(); err != nil {
		return Record{}, err
	}
	employee, err := s.store.Employee(ctx, req.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	if !employee.Active() {
		return Record{}, ErrEmployeeInactive
	}
	exists, err := s.store.RecordExists(ctx, employee.ID, req.Month, req.Year)
	if err != nil {
		return Record{}, err
	}
	if exists {
		return Record{}, ErrPayrollAlreadyRecorded
	}

	computed, err := ComputeWithholding(employee.GrossSalary)
	if err != nil {
		return Record{}, err
	}
	withholding := computed.Rounded()
	costs := EmployerCosts(employee.GrossSalary).Rounded()

	paid := withholding.Net
	if req.NetOverride != nil {
		paid = roundMoney(*req.NetOverride)
	}
	if !paid.IsPositive() {
		return Record{}, invalid("amountPaid", "must be greater than zero")
	}

	category, err := s.store.PayrollCategory(ctx)
	if err != nil {
		return Record{}, err
	}
	reference, err := json.Marshal(Breakdown{
		Gross:          withholding.Gross,
		SocialSecurity: withholding.SocialSecurityEmployee,
		IncomeTax:      withholding.IncomeTax,
		Net:            paid,
		Month:          req.Month,
		Year:           req.Year,
	})
	if err != nil {
		return Record{}, fmt.Errorf("encode payroll breakdown: %w", err)
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		method = DefaultPaymentMethod
	}
	rec := Record{
		EmployeeID:             employee.ID,
		EmployeeName:           employee.FullName(),
		Month:                  req.Month,
		Year:                   req.Year,
		Gross:                  withholding.Gross,
		SocialSecurityEmployee: withholding.SocialSecurityEmployee,
		IncomeTax:              withholding.IncomeTax,
		Net:                    withholding.Net,
		AmountPaid:             paid,
		EmployerSocialSecurity: costs.EmployerSocialSecurity,
		TrainingLevy:           costs.TrainingLevy,
		PaymentMethod:          method,
		Status:                 RecordStatusRecorded,
		RecordedBy:             req.RecordedBy,
	}
	entry := ledger.NewTransaction{
		Type:          ledger.TypeExpense,
		Amount:        paid,
		CategoryID:    category.ID,
		PaymentMethod: method,
		Reference:     string(reference),
		EmployeeID:    employee.ID,
		Date:          s.now(),
	}
	return s.store.SaveRecord(ctx, rec, entry)
}

func (r RecordRequest) validate() error {
	if strings.TrimSpace(r.EmployeeID) == "" {
		return invalid("employeeId", "is required")
	}
	if r.Month < 1 || r.Month > 12 {
		return invalid("month", "must be between 1 and 12")
	}
	if r.Year < 2000 || r.Year > 2100 {
		return invalid("year", "must be between 2000 and 2100")
	}
	if r.NetOverride != nil && !r.NetOverride.IsPositive() {
		return invalid("amountPaid", "must be greater than zero")
	}
	return nil
}

// PreviewPayroll computes an employee's payroll line without recording it.
func (s *Service) PreviewPayroll(ctx context.Context, employeeID string) (Preview, error) {
	employee, err := s.store.Employee(ctx, employeeID)
	if err != nil {
		return Preview{}, err
	}
	withholding, err := ComputeWithholding(employee.GrossSalary)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName(),
		Withholding:  withholding.Rounded(),
		EmployerCost: EmployerCosts(employee.GrossSalary).Rounded(),
	}, nil
}

// PreviewBatch computes payroll lines for every active employee. Concurrent
// callers share one computation.
const previewTimeout = 30 * time.Second

// PreviewBatch shares one computation between concurrent callers. The
// shared work is detached from any single caller's cancellation and bounded
// by previewTimeout; each caller stops waiting when its own ctx is done.
func (s *Service) PreviewBatch(ctx context.Context) (BatchPreview, error) {
	ch := s.previews.DoChan("active", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), previewTimeout)
		defer cancel()
		return s.previewBatch(ctx)
	})
	select {
	case <-ctx.Done():
		return BatchPreview{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return BatchPreview{}, res.Err
		}
		return res.Val.(BatchPreview), nil
	}
}

func (s *Service) previewBatch(ctx context.Context) (BatchPreview, error) {
	employees, err := s.store.ActiveEmployees(ctx)
	if err != nil {
		return BatchPreview{}, err
	}
	gross := make(map[string]decimal.Decimal, len(employees))
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		gross[e.ID] = e.GrossSalary
		names[e.ID] = e.FullName()
	}
	lines, err := ComputeBatch(ctx, gross)
	if err != nil {
		return BatchPreview{}, err
	}

	out := BatchPreview{Lines: make([]Preview, 0, len(lines))}
	for id, line := range lines {
		out.Lines = append(out.Lines, Preview{
			EmployeeID:   id,
			EmployeeName: names[id],
			Withholding:  line.Withholding,
			EmployerCost: line.EmployerCost,
		})
		out.TotalGross = out.TotalGross.Add(line.Withholding.Gross)
		out.TotalNet = out.TotalNet.Add(line.Withholding.Net)
		out.TotalEmployerCost = out.TotalEmployerCost.Add(line.EmployerCost.Total)
	}
	sort.Slice(out.Lines, func(i, j int) bool {
		return out.Lines[i].EmployeeName < out.Lines[j].EmployeeName
	})
	return out, nil
}

func (s *Service) GetRecord(ctx context.Context, id string) (Record, error) {
	return s.store.GetRecord(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int, error) {
	return s.store.ListRecords(ctx, filter)
}

// Liquidation computes an ad-hoc settlement. No persistence.
func (s *Service) Liquidation(in LiquidationInput) (LiquidationResult, error) {
	res, err := ComputeLiquidation(in)
	if err != nil {
		return LiquidationResult{}, err
	}
	return res.Rounded(), nil
}

// LiquidateEmployee settles a stored employee. The end date defaults to the
// termination date, then to today.
func (s *Service) LiquidateEmployee(ctx context.Context, employeeID string, end time.Time, accruedDays decimal.Decimal) (LiquidationResult, error) {
	employee, err := s.store.Employee(ctx, employeeID)
	if err != nil {
		return LiquidationResult{}, err
	}
	return s.Liquidation(LiquidationInput{
		GrossSalary:         employee.GrossSalary,
		HireDate:            employee.HireDate,
		EndDate:             s.settlementDate(employee, end),
		AccruedVacationDays: accruedDays,
	})
}

func (s *Service) settlementDate(employee staff.Employee, end time.Time) time.Time {
	if !end.IsZero() {
		return end
	}
	if employee.TerminationDate != nil {
		return *employee.TerminationDate
	}
	return s.now()
}
