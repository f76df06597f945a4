package ledgerhandler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"schooloffice/internal/domain/audit"
	"schooloffice/internal/domain/auth"
	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/transport/http/api"
	"schooloffice/internal/transport/http/middleware"
	"schooloffice/internal/transport/http/shared"
)

type Handler struct {
	Service *ledger.Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
	now     func() time.Time
}

func NewHandler(service *ledger.Service, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder, now: time.Now}
}

type categoryPayload struct {
	Name string `json:"name" validate:"required,max=80"`
	Type string `json:"type" validate:"required,oneof=income expense"`
}

type transactionPayload struct {
	Type          string           `json:"type" validate:"required,oneof=income expense"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	CategoryID    string           `json:"categoryId" validate:"required"`
	PaymentMethod string           `json:"paymentMethod" validate:"max=40"`
	Reference     string           `json:"reference" validate:"max=2000"`
	EmployeeID    string           `json:"employeeId"`
	Date          string           `json:"date"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ledger", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLedgerRead, h.Perms)).Get("/categories", h.handleListCategories)
		r.With(middleware.RequirePermission(auth.PermLedgerWrite, h.Perms)).Post("/categories", h.handleCreateCategory)
		r.With(middleware.RequirePermission(auth.PermLedgerRead, h.Perms)).Get("/transactions", h.handleListTransactions)
		r.With(middleware.RequirePermission(auth.PermLedgerWrite, h.Perms)).Post("/transactions", h.handleCreateTransaction)
		r.With(middleware.RequirePermission(auth.PermLedgerRead, h.Perms)).Get("/transactions/{transactionID}", h.handleGetTransaction)
		r.With(middleware.RequirePermission(auth.PermLedgerRead, h.Perms)).Get("/summary", h.handleSummary)
	})
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err, "category_list_failed")
		return
	}
	api.Success(w, categories, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload categoryPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	category, err := h.Service.CreateCategory(r.Context(), payload.Name, payload.Type)
	if err != nil {
		writeError(w, r, err, "category_create_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "transaction_category", category.ID, nil, category)
	api.Created(w, category, requestID)
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	from, _ := v.OptionalDate("from", q.Get("from"))
	to, _ := v.OptionalDate("to", q.Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, requestID) {
		return
	}

	page := shared.ParsePagination(r, 50, 500)
	items, total, err := h.Service.ListTransactions(r.Context(), ledger.Filter{
		Type:       q.Get("type"),
		CategoryID: q.Get("categoryId"),
		EmployeeID: q.Get("employeeId"),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		writeError(w, r, err, "transaction_list_failed")
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, api.Page{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload transactionPayload
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	date, _ := v.OptionalDate("date", payload.Date)
	if v.Reject(w, requestID) {
		return
	}

	tx, err := h.Service.CreateTransaction(r.Context(), ledger.NewTransaction{
		Type:          payload.Type,
		Amount:        *payload.Amount,
		CategoryID:    payload.CategoryID,
		PaymentMethod: payload.PaymentMethod,
		Reference:     payload.Reference,
		EmployeeID:    payload.EmployeeID,
		Date:          date,
	})
	if err != nil {
		writeError(w, r, err, "transaction_create_failed")
		return
	}
	shared.Audit(r, h.Audit, audit.ActionCreate, "transaction", tx.ID, nil, tx)
	api.Created(w, tx, requestID)
}

func (h *Handler) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Service.GetTransaction(r.Context(), chi.URLParam(r, "transactionID"))
	if err != nil {
		writeError(w, r, err, "transaction_get_failed")
		return
	}
	api.Success(w, tx, middleware.GetRequestID(r.Context()))
}

// handleSummary defaults to the current month when year or month is absent.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	year := v.QueryInt(r, "year")
	month := v.QueryInt(r, "month")
	if v.Reject(w, requestID) {
		return
	}
	now := h.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	summary, err := h.Service.MonthlySummary(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err, "summary_failed")
		return
	}
	api.Success(w, summary, requestID)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, ledger.ErrCategoryNotFound), errors.Is(err, ledger.ErrTransactionNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, ledger.ErrInvalidType),
		errors.Is(err, ledger.ErrTypeMismatch),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	case errors.Is(err, ledger.ErrCategoryNameTaken):
		api.Fail(w, http.StatusConflict, "category_exists", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, "request failed", requestID)
	}
}
