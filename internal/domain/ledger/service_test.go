package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	categories   map[string]Category
	transactions []Transaction
	from, to     time.Time
}

func newMemStore() *memStore {
	return &memStore{categories: map[string]Category{
		"cat-pay":  {ID: "cat-pay", Name: CategoryPayroll, Type: TypeExpense},
		"cat-fees": {ID: "cat-fees", Name: CategoryTuition, Type: TypeIncome},
	}}
}

func (m *memStore) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) GetCategory(ctx context.Context, id string) (Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (m *memStore) CategoryByName(ctx context.Context, name string) (Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

func (m *memStore) CreateCategory(ctx context.Context, name, txType string) (Category, error) {
	c := Category{ID: "cat-" + name, Name: name, Type: txType}
	m.categories[c.ID] = c
	return c, nil
}

func (m *memStore) CreateTransaction(ctx context.Context, tx NewTransaction) (Transaction, error) {
	t := Transaction{ID: "tx-1", Type: tx.Type, Amount: tx.Amount, CategoryID: tx.CategoryID, Date: tx.Date, PaymentMethod: tx.PaymentMethod}
	m.transactions = append(m.transactions, t)
	return t, nil
}

func (m *memStore) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	for _, t := range m.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

func (m *memStore) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, int, error) {
	return m.transactions, len(m.transactions), nil
}

func (m *memStore) TotalsBetween(ctx context.Context, from, to time.Time) (MonthlySummary, error) {
	m.from, m.to = from, to
	return MonthlySummary{Income: decimal.NewFromInt(500), Expense: decimal.NewFromInt(200), Balance: decimal.NewFromInt(300)}, nil
}

func TestCreateTransactionValidates(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.CreateTransaction(ctx, NewTransaction{Type: "refund", Amount: decimal.NewFromInt(1), CategoryID: "cat-pay"})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.CreateTransaction(ctx, NewTransaction{Type: TypeExpense, Amount: decimal.Zero, CategoryID: "cat-pay"})
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = svc.CreateTransaction(ctx, NewTransaction{Type: TypeIncome, Amount: decimal.NewFromInt(10), CategoryID: "cat-pay"})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = svc.CreateTransaction(ctx, NewTransaction{Type: TypeIncome, Amount: decimal.NewFromInt(10), CategoryID: "nope"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateTransactionDefaultsDate(t *testing.T) {
	svc := NewService(newMemStore())
	fixed := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	tx, err := svc.CreateTransaction(context.Background(), NewTransaction{
		Type: TypeIncome, Amount: decimal.NewFromInt(1200), CategoryID: "cat-fees", PaymentMethod: " cash ",
	})
	require.NoError(t, err)
	assert.Equal(t, fixed, tx.Date)
	assert.Equal(t, "cash", tx.PaymentMethod)
}

func TestMonthlySummary(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	summary, err := svc.MonthlySummary(context.Background(), 2025, 12)
	require.NoError(t, err)
	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, 12, summary.Month)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), store.from)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), store.to)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(300)))

	_, err = svc.MonthlySummary(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestDefaultCategories(t *testing.T) {
	types := map[string]string{}
	for _, c := range DefaultCategories {
		types[c.Name] = c.Type
	}
	assert.Equal(t, map[string]string{CategoryPayroll: TypeExpense, CategoryTuition: TypeIncome}, types)
}
