package staffhandler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"schooloffice/internal/domain/audit"
	"schooloffice/internal/domain/auth"
	"schooloffice/internal/domain/staff"
	"schooloffice/internal/transport/http/api"
	"schooloffice/internal/transport/http/middleware"
	"schooloffice/internal/transport/http/shared"
)

const entityEmployee = "employee"

type Handler struct {
	Service *staff.Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service *staff.Service, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

type employeePayload struct {
	FirstName   string           `json:"firstName" validate:"required,max=100"`
	LastName    string           `json:"lastName" validate:"required,max=100"`
	Position    string           `json:"position" validate:"max=100"`
	NationalID  string           `json:"nationalId" validate:"max=30"`
	Email       string           `json:"email" validate:"omitempty,email"`
	Phone       string           `json:"phone" validate:"max=30"`
	BankAccount string           `json:"bankAccount" validate:"max=40"`
	GrossSalary *decimal.Decimal `json:"grossSalary" validate:"required"`
	HireDate    string           `json:"hireDate" validate:"required"`
}

type terminatePayload struct {
	TerminationDate string `json:"terminationDate"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermStaffRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermStaffRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Post("/{employeeID}/terminate", h.handleTerminate)
		r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Patch("/{employeeID}/status", h.handleSetStatus)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	employees, total, err := h.Service.List(r.Context(), staff.Filter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("q"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		writeError(w, r, err, "employee_list_failed")
		return
	}
	role := callerRole(r)
	for i := range employees {
		staff.FilterSensitiveFields(&employees[i], role)
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, api.Page{Items: employees, Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		writeError(w, r, err, "employee_get_failed")
		return
	}
	staff.FilterSensitiveFields(&employee, callerRole(r))
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func callerRole(r *http.Request) string {
	user, _ := middleware.GetUser(r.Context())
	return user.Role
}

func (h *Handler) decodeEmployee(w http.ResponseWriter, r *http.Request) (staff.EmployeeInput, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employeePayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return staff.EmployeeInput{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	var hireDate time.Time
	if payload.HireDate != "" {
		hireDate, _ = v.Date("hireDate", payload.HireDate)
	}
	if payload.GrossSalary != nil && payload.GrossSalary.IsNegative() {
		v.Add("grossSalary", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return staff.EmployeeInput{}, false
	}
	return staff.EmployeeInput{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Position:    payload.Position,
		NationalID:  payload.NationalID,
		Email:       payload.Email,
		Phone:       payload.Phone,
		BankAccount: payload.BankAccount,
		GrossSalary: *payload.GrossSalary,
		HireDate:    hireDate,
	}, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeEmployee(w, r)
	if !ok {
		return
	}
	employee, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "employee_create_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, entityEmployee, employee.ID, nil, employee.ForAudit())
	api.Created(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "employee_update_failed")
		return
	}
	in, ok := h.decodeEmployee(w, r)
	if !ok {
		return
	}
	employee, err := h.Service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err, "employee_update_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, entityEmployee, id, before.ForAudit(), employee.ForAudit())
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTerminate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload terminatePayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	date, _ := v.OptionalDate("terminationDate", payload.TerminationDate)
	if v.Reject(w, requestID) {
		return
	}

	id := chi.URLParam(r, "employeeID")
	employee, err := h.Service.Terminate(r.Context(), id, date)
	if err != nil {
		writeError(w, r, err, "employee_terminate_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionTerminate, entityEmployee, id, nil, employee.ForAudit())
	api.Success(w, employee, requestID)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload statusPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	id := chi.URLParam(r, "employeeID")
	if err := h.Service.SetStatus(r.Context(), id, payload.Status); err != nil {
		writeError(w, r, err, "employee_status_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionUpdate, entityEmployee, id, nil, payload)
	api.Success(w, map[string]string{"id": id, "status": payload.Status}, requestID)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, staff.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, staff.ErrInvalidStatus),
		errors.Is(err, staff.ErrNameRequired),
		errors.Is(err, staff.ErrNegativeSalary),
		errors.Is(err, staff.ErrTerminationBeforeHire):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, staff.ErrAlreadyTerminated):
		api.Fail(w, http.StatusConflict, "already_terminated", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, "request failed", requestID)
	}
}
