package ledger

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	CategoryByName(ctx context.Context, name string) (Category, error)
	CreateCategory(ctx context.Context, name, txType string) (Category, error)
	CreateTransaction(ctx context.Context, tx NewTransaction) (Transaction, error)
	GetTransaction(ctx context.Context, id string) (Transaction, error)
	ListTransactions(ctx context.Context, filter Filter) ([]Transaction, int, error)
	TotalsBetween(ctx context.Context, from, to time.Time) (MonthlySummary, error)
}
