package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"schooloffice/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, type
    FROM transaction_categories
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := s.DB.QueryRow(ctx, "SELECT id, name, type FROM transaction_categories WHERE id = $1", id).Scan(&c.ID, &c.Name, &c.Type)
	if querier.NotFound(err) {
		return Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (s *Store) CategoryByName(ctx context.Context, name string) (Category, error) {
	var c Category
	err := s.DB.QueryRow(ctx, "SELECT id, name, type FROM transaction_categories WHERE name = $1", name).Scan(&c.ID, &c.Name, &c.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (s *Store) CreateCategory(ctx context.Context, name, txType string) (Category, error) {
	var c Category
	err := s.DB.QueryRow(ctx, `
    INSERT INTO transaction_categories (name, type)
    VALUES ($1,$2)
    RETURNING id, name, type
  `, name, txType).Scan(&c.ID, &c.Name, &c.Type)
	if querier.HasCode(err, querier.CodeUniqueViolation) {
		return Category{}, ErrCategoryNameTaken
	}
	return c, err
}

const transactionColumns = `t.id, t.type, t.amount, t.category_id, c.name, t.payment_method,
           COALESCE(t.reference, ''), COALESCE(t.employee_id::text, ''), t.occurred_at, t.created_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Type, &t.Amount, &t.CategoryID, &t.CategoryName, &t.PaymentMethod,
		&t.Reference, &t.EmployeeID, &t.Date, &t.CreatedAt)
	if querier.NotFound(err) {
		return Transaction{}, ErrTransactionNotFound
	}
	return t, err
}

func (s *Store) CreateTransaction(ctx context.Context, tx NewTransaction) (Transaction, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO transactions (type, amount, category_id, payment_method, reference, employee_id, occurred_at)
    VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,'')::uuid,$7)
    RETURNING id
  `, tx.Type, tx.Amount, tx.CategoryID, tx.PaymentMethod, tx.Reference, tx.EmployeeID, tx.Date).Scan(&id)
	if err != nil {
		return Transaction{}, err
	}
	return s.GetTransaction(ctx, id)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	return scanTransaction(s.DB.QueryRow(ctx, `
    SELECT `+transactionColumns+`
    FROM transactions t
    JOIN transaction_categories c ON c.id = t.category_id
    WHERE t.id = $1
  `, id))
}

func (s *Store) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, int, error) {
	where := []string{"1=1"}
	args := []any{}
	add := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.Type != "" {
		add("t.type = $%d", filter.Type)
	}
	if filter.CategoryID != "" {
		add("t.category_id = $%d", filter.CategoryID)
	}
	if filter.EmployeeID != "" {
		add("t.employee_id = $%d", filter.EmployeeID)
	}
	if !filter.From.IsZero() {
		add("t.occurred_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("t.occurred_at < $%d", filter.To)
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM transactions t WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + transactionColumns + `
    FROM transactions t
    JOIN transaction_categories c ON c.id = t.category_id
    WHERE ` + clause + ` ORDER BY t.occurred_at DESC, t.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (s *Store) TotalsBetween(ctx context.Context, from, to time.Time) (MonthlySummary, error) {
	var summary MonthlySummary
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
           COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
    FROM transactions
    WHERE occurred_at >= $1 AND occurred_at < $2
  `, from, to).Scan(&summary.Income, &summary.Expense)
	if err != nil {
		return MonthlySummary{}, err
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary, nil
}
