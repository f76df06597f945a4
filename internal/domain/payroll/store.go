package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/domain/staff"
	"schooloffice/internal/platform/crypto"
	"schooloffice/internal/platform/querier"
)

type Store struct {
	DB    querier.Beginner
	staff *staff.Store
}

func NewStore(db querier.Beginner, sealer *crypto.Sealer) *Store {
	return &Store{DB: db, staff: staff.NewStore(db, sealer)}
}

func (s *Store) Employee(ctx context.Context, id string) (staff.Employee, error) {
	return s.staff.GetEmployee(ctx, id)
}

func (s *Store) ActiveEmployees(ctx context.Context) ([]staff.Employee, error) {
	employees, _, err := s.staff.ListEmployees(ctx, staff.Filter{Status: staff.StatusActive})
	return employees, err
}

func (s *Store) PayrollCategory(ctx context.Context) (ledger.Category, error) {
	category, err := ledger.NewStore(s.DB).CategoryByName(ctx, ledger.CategoryPayroll)
	if errors.Is(err, ledger.ErrCategoryNotFound) {
		return ledger.Category{}, ErrPayrollCategoryMissing
	}
	return category, err
}

func (s *Store) RecordExists(ctx context.Context, employeeID string, month, year int) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payroll_records
    WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
  `, employeeID, month, year).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) SaveRecord(ctx context.Context, rec Record, entry ledger.NewTransaction) (Record, error) {
	var id string
	err := querier.InTx(ctx, s.DB, func(q querier.Querier) error {
		tx, err := ledger.NewStore(q).CreateTransaction(ctx, entry)
		if err != nil {
			return fmt.Errorf("create ledger entry: %w", err)
		}
		return q.QueryRow(ctx, `
      INSERT INTO payroll_records (employee_id, transaction_id, period_month, period_year,
                                   gross, social_security, income_tax, net, amount_paid,
                                   employer_social_security, training_levy, payment_method, status, recorded_by)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NULLIF($14,'')::uuid)
      RETURNING id
    `, rec.EmployeeID, tx.ID, rec.Month, rec.Year,
			rec.Gross, rec.SocialSecurityEmployee, rec.IncomeTax, rec.Net, rec.AmountPaid,
			rec.EmployerSocialSecurity, rec.TrainingLevy, rec.PaymentMethod, rec.Status, rec.RecordedBy).Scan(&id)
	})
	if querier.HasCode(err, querier.CodeUniqueViolation) {
		return Record{}, ErrPayrollAlreadyRecorded
	}
	if err != nil {
		return Record{}, err
	}
	return s.GetRecord(ctx, id)
}

const recordColumns = `r.id, r.employee_id, e.first_name || ' ' || e.last_name, r.transaction_id,
           r.period_month, r.period_year, r.gross, r.social_security, r.income_tax, r.net, r.amount_paid,
           r.employer_social_security, r.training_levy, r.payment_method, r.status,
           COALESCE(r.recorded_by::text, ''), r.created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.TransactionID,
		&r.Month, &r.Year, &r.Gross, &r.SocialSecurityEmployee, &r.IncomeTax, &r.Net, &r.AmountPaid,
		&r.EmployerSocialSecurity, &r.TrainingLevy, &r.PaymentMethod, &r.Status,
		&r.RecordedBy, &r.CreatedAt)
	if querier.NotFound(err) {
		return Record{}, ErrRecordNotFound
	}
	return r, err
}

func (s *Store) GetRecord(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM payroll_records r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.id = $1
  `, id))
}

func (s *Store) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int, error) {
	where := []string{"1=1"}
	args := []any{}
	add := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.EmployeeID != "" {
		add("r.employee_id = $%d", filter.EmployeeID)
	}
	if filter.Month > 0 {
		add("r.period_month = $%d", filter.Month)
	}
	if filter.Year > 0 {
		add("r.period_year = $%d", filter.Year)
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_records r WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recordColumns + `
    FROM payroll_records r
    JOIN employees e ON e.id = r.employee_id
    WHERE ` + clause + ` ORDER BY r.period_year DESC, r.period_month DESC, e.last_name, e.first_name`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
