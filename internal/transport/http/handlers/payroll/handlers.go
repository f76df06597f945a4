package payrollhandler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"schooloffice/internal/domain/audit"
	"schooloffice/internal/domain/auth"
	"schooloffice/internal/domain/payroll"
	"schooloffice/internal/domain/staff"
	"schooloffice/internal/platform/jobs"
	"schooloffice/internal/transport/http/api"
	"schooloffice/internal/transport/http/middleware"
	"schooloffice/internal/transport/http/shared"
)

const (
	calcWithholding  = "withholding"
	calcEmployerCost = "employer_cost"
	calcLiquidation  = "liquidation"
	calcBatch        = "batch"

	jobPayrollRun = "payroll_run"
)

// CalculationCounter receives one tick per calculator request.
type CalculationCounter interface {
	Calculation(kind string, ok bool)
}

// JobQueue runs whole-month payroll in the background.
type JobQueue interface {
	Enqueue(ctx context.Context, jobType, requestedBy string, fn jobs.Func) (jobs.Run, error)
	Get(ctx context.Context, id string) (jobs.Run, error)
}

type Handler struct {
	Service *payroll.Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
	Metrics CalculationCounter
	Jobs    JobQueue
}

func NewHandler(service *payroll.Service, perms middleware.PermissionStore, recorder audit.Recorder, metrics CalculationCounter, queue JobQueue) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder, Metrics: metrics, Jobs: queue}
}

type grossPayload struct {
	GrossSalary *decimal.Decimal `json:"grossSalary" validate:"required"`
}

type recordPayload struct {
	EmployeeID    string           `json:"employeeId" validate:"required"`
	Month         int              `json:"month" validate:"required"`
	Year          int              `json:"year" validate:"required"`
	PaymentMethod string           `json:"paymentMethod" validate:"max=40"`
	AmountPaid    *decimal.Decimal `json:"amountPaid"`
}

type runPayload struct {
	Month         int    `json:"month" validate:"required"`
	Year          int    `json:"year" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"max=40"`
}

type liquidationPayload struct {
	GrossSalary         *decimal.Decimal `json:"grossSalary" validate:"required"`
	HireDate            string           `json:"hireDate"`
	EndDate             string           `json:"endDate"`
	AccruedVacationDays decimal.Decimal  `json:"accruedVacationDays"`
}

type employeeLiquidationPayload struct {
	EndDate             string          `json:"endDate"`
	AccruedVacationDays decimal.Decimal `json:"accruedVacationDays"`
}

type calculation struct {
	Withholding  payroll.WithholdingResult `json:"withholding"`
	EmployerCost payroll.EmployerCost      `json:"employerCost"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Post("/calculate", h.handleCalculate)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Post("/employer-cost", h.handleEmployerCost)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/preview", h.handlePreviewBatch)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/preview/{employeeID}", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/records", h.handleRecord)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/records", h.handleListRecords)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/records/{recordID}", h.handleGetRecord)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/records/{recordID}/payslip", h.handlePayslip)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/register", h.handleRegister)
		if h.Jobs != nil {
			r.With(middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)).Post("/runs", h.handleRun)
			r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs/{runID}", h.handleGetRun)
		}
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Post("/liquidation", h.handleLiquidation)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Post("/liquidation/{employeeID}", h.handleEmployeeLiquidation)
	})
}

func (h *Handler) count(kind string, err error) {
	if h.Metrics != nil {
		h.Metrics.Calculation(kind, err == nil)
	}
}

func (h *Handler) decodeGross(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload grossPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return decimal.Zero, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return decimal.Zero, false
	}
	return *payload.GrossSalary, true
}

// handleCalculate returns the rounded withholding breakdown together with
// the employer cost for the same gross.
func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	gross, ok := h.decodeGross(w, r)
	if !ok {
		return
	}
	withholding, err := payroll.ComputeWithholding(gross)
	h.count(calcWithholding, err)
	if err != nil {
		writeError(w, r, err, "calculation_failed")
		return
	}
	api.Success(w, calculation{
		Withholding:  withholding.Rounded(),
		EmployerCost: payroll.EmployerCosts(gross).Rounded(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployerCost(w http.ResponseWriter, r *http.Request) {
	gross, ok := h.decodeGross(w, r)
	if !ok {
		return
	}
	costs, err := payroll.ComputeEmployerCosts(gross)
	h.count(calcEmployerCost, err)
	if err != nil {
		writeError(w, r, err, "calculation_failed")
		return
	}
	api.Success(w, costs.Rounded(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.Service.PreviewPayroll(r.Context(), chi.URLParam(r, "employeeID"))
	h.count(calcWithholding, err)
	if err != nil {
		writeError(w, r, err, "preview_failed")
		return
	}
	api.Success(w, preview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreviewBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.Service.PreviewBatch(r.Context())
	h.count(calcBatch, err)
	if err != nil {
		writeError(w, r, err, "preview_failed")
		return
	}
	api.Success(w, batch, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload recordPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	req := payroll.RecordRequest{
		EmployeeID:    payload.EmployeeID,
		Month:         payload.Month,
		Year:          payload.Year,
		PaymentMethod: payload.PaymentMethod,
		NetOverride:   payload.AmountPaid,
	}
	if user, ok := middleware.GetUser(r.Context()); ok {
		req.RecordedBy = user.UserID
	}
	record, err := h.Service.RecordPayroll(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "payroll_record_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionRecord, "payroll_record", record.ID, nil, record)
	api.Created(w, record, requestID)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload runPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	req := payroll.RunRequest{Month: payload.Month, Year: payload.Year, PaymentMethod: payload.PaymentMethod}
	if user, ok := middleware.GetUser(r.Context()); ok {
		req.RecordedBy = user.UserID
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err, "payroll_run_failed")
		return
	}
	run, err := h.Jobs.Enqueue(r.Context(), jobPayrollRun, req.RecordedBy, func(ctx context.Context) (any, error) {
		return h.Service.RunPayroll(ctx, req)
	})
	if err != nil {
		writeError(w, r, err, "payroll_run_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionRecord, "payroll_run", run.ID, nil, req)
	api.Accepted(w, run, requestID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Jobs.Get(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, r, err, "payroll_run_get_failed")
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	month := v.QueryInt(r, "month")
	year := v.QueryInt(r, "year")
	if v.Reject(w, requestID) {
		return
	}
	page := shared.ParsePagination(r, 100, 500)
	records, total, err := h.Service.ListRecords(r.Context(), payroll.RecordFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Month:      month,
		Year:       year,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		writeError(w, r, err, "payroll_records_failed")
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, api.Page{Items: records, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.GetRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		writeError(w, r, err, "payroll_record_failed")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	pdf, err := h.Service.PayslipPDF(r.Context(), recordID)
	if err != nil {
		writeError(w, r, err, "payslip_failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", recordID))
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("payslip write failed", "recordId", recordID, "err", err)
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	month := v.QueryInt(r, "month")
	year := v.QueryInt(r, "year")
	if month < 1 || month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	if year == 0 {
		v.Add("year", "is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	var buf bytes.Buffer
	if err := h.Service.WriteRegister(r.Context(), &buf, month, year); err != nil {
		writeError(w, r, err, "register_export_failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-register-%04d-%02d.csv", year, month))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("register write failed", "err", err)
	}
}

func (h *Handler) handleLiquidation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload liquidationPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	hire, _ := v.OptionalDate("hireDate", payload.HireDate)
	end, _ := v.OptionalDate("endDate", payload.EndDate)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Liquidation(payroll.LiquidationInput{
		GrossSalary:         *payload.GrossSalary,
		HireDate:            hire,
		EndDate:             end,
		AccruedVacationDays: payload.AccruedVacationDays,
	})
	h.count(calcLiquidation, err)
	if err != nil {
		writeError(w, r, err, "liquidation_failed")
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleEmployeeLiquidation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employeeLiquidationPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	end, _ := v.OptionalDate("endDate", payload.EndDate)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.LiquidateEmployee(r.Context(), chi.URLParam(r, "employeeID"), end, payload.AccruedVacationDays)
	h.count(calcLiquidation, err)
	if err != nil {
		writeError(w, r, err, "liquidation_failed")
		return
	}
	api.Success(w, result, requestID)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	requestID := middleware.GetRequestID(r.Context())
	var invalid *payroll.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		api.FailWithDetails(w, http.StatusBadRequest, "invalid_input", err.Error(),
			map[string]string{"field": invalid.Field, "reason": invalid.Reason}, requestID)
	case errors.Is(err, payroll.ErrInvalidInput):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, staff.ErrEmployeeNotFound), errors.Is(err, payroll.ErrRecordNotFound), errors.Is(err, jobs.ErrRunNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrPayrollAlreadyRecorded):
		api.Fail(w, http.StatusConflict, "already_recorded", err.Error(), requestID)
	case errors.Is(err, payroll.ErrEmployeeInactive):
		api.Fail(w, http.StatusConflict, "employee_inactive", err.Error(), requestID)
	case errors.Is(err, jobs.ErrQueueFull):
		api.Fail(w, http.StatusServiceUnavailable, "queue_full", err.Error(), requestID)
	case errors.Is(err, payroll.ErrPayrollCategoryMissing):
		slog.Error("payroll category missing", "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "payroll_category_missing", err.Error(), requestID)
	default:
		slog.Error("payroll request failed", "code", fallbackCode, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, fallbackCode, "request failed", requestID)
	}
}
