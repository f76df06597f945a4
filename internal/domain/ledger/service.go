package ledger

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name, txType string) (Category, error) {
	if !validType(txType) {
		return Category{}, ErrInvalidType
	}
	return s.store.CreateCategory(ctx, strings.TrimSpace(name), txType)
}

// CreateTransaction records an income or expense entry. The entry type must
// agree with its category and the amount must be positive.
func (s *Service) CreateTransaction(ctx context.Context, tx NewTransaction) (Transaction, error) {
	if err := s.Check(ctx, &tx); err != nil {
		return Transaction{}, err
	}
	return s.store.CreateTransaction(ctx, tx)
}

// Check validates and fills defaults on tx without writing it.
func (s *Service) Check(ctx context.Context, tx *NewTransaction) error {
	return CheckTransaction(ctx, s.store, tx, s.now)
}

func CheckTransaction(ctx context.Context, store StoreAPI, tx *NewTransaction, now func() time.Time) error {
	if !validType(tx.Type) {
		return ErrInvalidType
	}
	if !tx.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	category, err := store.GetCategory(ctx, tx.CategoryID)
	if err != nil {
		return err
	}
	if category.Type != tx.Type {
		return ErrTypeMismatch
	}
	if tx.Date.IsZero() {
		tx.Date = now()
	}
	tx.PaymentMethod = strings.TrimSpace(tx.PaymentMethod)
	return nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, int, error) {
	if filter.Type != "" && !validType(filter.Type) {
		return nil, 0, ErrInvalidType
	}
	return s.store.ListTransactions(ctx, filter)
}

// MonthlySummary totals income and expense for a calendar month.
func (s *Service) MonthlySummary(ctx context.Context, year, month int) (MonthlySummary, error) {
	if month < 1 || month > 12 || year < 1900 || year > 9999 {
		return MonthlySummary{}, ErrInvalidPeriod
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	summary, err := s.store.TotalsBetween(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return MonthlySummary{}, err
	}
	summary.Year, summary.Month = year, month
	return summary, nil
}

func validType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
