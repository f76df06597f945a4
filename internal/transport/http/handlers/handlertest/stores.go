// Package handlertest holds in-memory stores and request helpers shared by
// the handler tests.
package handlertest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/domain/payroll"
	"schooloffice/internal/domain/staff"
)

type StaffStore struct {
	mu        sync.Mutex
	Employees map[string]staff.Employee
	seq       int
}

func NewStaffStore(employees ...staff.Employee) *StaffStore {
	s := &StaffStore{Employees: map[string]staff.Employee{}}
	for _, e := range employees {
		s.Employees[e.ID] = e
	}
	return s
}

func (s *StaffStore) ListEmployees(ctx context.Context, filter staff.Filter) ([]staff.Employee, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []staff.Employee
	for _, e := range s.Employees {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.FullName()), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *StaffStore) GetEmployee(ctx context.Context, id string) (staff.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.Employees[id]
	if !ok {
		return staff.Employee{}, staff.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *StaffStore) CreateEmployee(ctx context.Context, in staff.EmployeeInput) (staff.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	e := apply(staff.Employee{ID: fmt.Sprintf("emp-%d", s.seq), Status: staff.StatusActive}, in)
	s.Employees[e.ID] = e
	return e, nil
}

func (s *StaffStore) UpdateEmployee(ctx context.Context, id string, in staff.EmployeeInput) (staff.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.Employees[id]
	if !ok {
		return staff.Employee{}, staff.ErrEmployeeNotFound
	}
	e = apply(e, in)
	s.Employees[id] = e
	return e, nil
}

func (s *StaffStore) TerminateEmployee(ctx context.Context, id string, terminationDate time.Time) (staff.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.Employees[id]
	if !ok {
		return staff.Employee{}, staff.ErrEmployeeNotFound
	}
	e.Status = staff.StatusInactive
	e.TerminationDate = &terminationDate
	s.Employees[id] = e
	return e, nil
}

func (s *StaffStore) SetStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.Employees[id]
	if !ok {
		return staff.ErrEmployeeNotFound
	}
	e.Status = status
	s.Employees[id] = e
	return nil
}

func apply(e staff.Employee, in staff.EmployeeInput) staff.Employee {
	e.FirstName, e.LastName, e.Position = in.FirstName, in.LastName, in.Position
	e.NationalID, e.Email, e.Phone, e.BankAccount = in.NationalID, in.Email, in.Phone, in.BankAccount
	e.GrossSalary, e.HireDate = in.GrossSalary, in.HireDate
	return e
}

type LedgerStore struct {
	mu           sync.Mutex
	Categories   []ledger.Category
	Transactions []ledger.Transaction
}

func NewLedgerStore() *LedgerStore {
	s := &LedgerStore{}
	for i, c := range ledger.DefaultCategories {
		c.ID = fmt.Sprintf("cat-%d", i+1)
		s.Categories = append(s.Categories, c)
	}
	return s
}

func (s *LedgerStore) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Category(nil), s.Categories...), nil
}

func (s *LedgerStore) GetCategory(ctx context.Context, id string) (ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Categories {
		if c.ID == id {
			return c, nil
		}
	}
	return ledger.Category{}, ledger.ErrCategoryNotFound
}

func (s *LedgerStore) CategoryByName(ctx context.Context, name string) (ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Categories {
		if c.Name == name {
			return c, nil
		}
	}
	return ledger.Category{}, ledger.ErrCategoryNotFound
}

func (s *LedgerStore) CreateCategory(ctx context.Context, name, txType string) (ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Categories {
		if c.Name == name {
			return ledger.Category{}, ledger.ErrCategoryNameTaken
		}
	}
	c := ledger.Category{ID: fmt.Sprintf("cat-%d", len(s.Categories)+1), Name: name, Type: txType}
	s.Categories = append(s.Categories, c)
	return c, nil
}

func (s *LedgerStore) CreateTransaction(ctx context.Context, tx ledger.NewTransaction) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var name string
	for _, c := range s.Categories {
		if c.ID == tx.CategoryID {
			name = c.Name
		}
	}
	out := ledger.Transaction{
		ID:            fmt.Sprintf("tx-%d", len(s.Transactions)+1),
		Type:          tx.Type,
		Amount:        tx.Amount,
		CategoryID:    tx.CategoryID,
		CategoryName:  name,
		PaymentMethod: tx.PaymentMethod,
		Reference:     tx.Reference,
		EmployeeID:    tx.EmployeeID,
		Date:          tx.Date,
	}
	s.Transactions = append(s.Transactions, out)
	return out, nil
}

func (s *LedgerStore) GetTransaction(ctx context.Context, id string) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return ledger.Transaction{}, ledger.ErrTransactionNotFound
}

func (s *LedgerStore) ListTransactions(ctx context.Context, filter ledger.Filter) ([]ledger.Transaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ledger.Transaction
	for _, t := range s.Transactions {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.EmployeeID != "" && t.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

func (s *LedgerStore) TotalsBetween(ctx context.Context, from, to time.Time) (ledger.MonthlySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := ledger.MonthlySummary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range s.Transactions {
		if t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		if t.Type == ledger.TypeIncome {
			out.Income = out.Income.Add(t.Amount)
		} else {
			out.Expense = out.Expense.Add(t.Amount)
		}
	}
	out.Balance = out.Income.Sub(out.Expense)
	return out, nil
}

// PayrollStore composes the staff and ledger fakes the way the Postgres
// payroll store composes their real counterparts.
type PayrollStore struct {
	Staff   *StaffStore
	Ledger  *LedgerStore
	mu      sync.Mutex
	Records []payroll.Record
}

func NewPayrollStore(staffStore *StaffStore, ledgerStore *LedgerStore) *PayrollStore {
	return &PayrollStore{Staff: staffStore, Ledger: ledgerStore}
}

func (s *PayrollStore) Employee(ctx context.Context, id string) (staff.Employee, error) {
	return s.Staff.GetEmployee(ctx, id)
}

func (s *PayrollStore) ActiveEmployees(ctx context.Context) ([]staff.Employee, error) {
	out, _, err := s.Staff.ListEmployees(ctx, staff.Filter{Status: staff.StatusActive})
	return out, err
}

func (s *PayrollStore) PayrollCategory(ctx context.Context) (ledger.Category, error) {
	c, err := s.Ledger.CategoryByName(ctx, ledger.CategoryPayroll)
	if err != nil {
		return ledger.Category{}, payroll.ErrPayrollCategoryMissing
	}
	return c, nil
}

func (s *PayrollStore) RecordExists(ctx context.Context, employeeID string, month, year int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Records {
		if r.EmployeeID == employeeID && r.Month == month && r.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (s *PayrollStore) SaveRecord(ctx context.Context, rec payroll.Record, entry ledger.NewTransaction) (payroll.Record, error) {
	tx, err := s.Ledger.CreateTransaction(ctx, entry)
	if err != nil {
		return payroll.Record{}, err
	}
	e, err := s.Staff.GetEmployee(ctx, rec.EmployeeID)
	if err != nil {
		return payroll.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = fmt.Sprintf("rec-%d", len(s.Records)+1)
	rec.TransactionID = tx.ID
	rec.EmployeeName = e.FullName()
	s.Records = append(s.Records, rec)
	return rec, nil
}

func (s *PayrollStore) GetRecord(ctx context.Context, id string) (payroll.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Records {
		if r.ID == id {
			return r, nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (s *PayrollStore) ListRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []payroll.Record
	for _, r := range s.Records {
		if (filter.Month == 0 || r.Month == filter.Month) && (filter.Year == 0 || r.Year == filter.Year) &&
			(filter.EmployeeID == "" || r.EmployeeID == filter.EmployeeID) {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type AuditEntry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
}

type AuditLog struct {
	mu      sync.Mutex
	Entries []AuditEntry
}

func (a *AuditLog) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Entries = append(a.Entries, AuditEntry{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID})
	return nil
}
