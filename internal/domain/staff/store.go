package staff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"schooloffice/internal/platform/crypto"
	"schooloffice/internal/platform/querier"
)

// Store persists employees. Bank accounts are sealed with Sealer before they
// reach the database.
const terminationAfterHire = "employees_termination_after_hire"

type Store struct {
	DB     querier.Querier
	Sealer *crypto.Sealer
}

func NewStore(db querier.Querier, sealer *crypto.Sealer) *Store {
	return &Store{DB: db, Sealer: sealer}
}

const employeeColumns = `id, first_name, last_name, position,
           COALESCE(national_id, ''), COALESCE(email, ''), COALESCE(phone, ''), bank_account_enc,
           gross_salary, hire_date, termination_date, status, created_at, updated_at`

func (s *Store) scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var bankEnc []byte
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Position,
		&e.NationalID, &e.Email, &e.Phone, &bankEnc,
		&e.GrossSalary, &e.HireDate, &e.TerminationDate, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if querier.NotFound(err) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	if e.BankAccount, err = s.Sealer.Open(bankEnc); err != nil {
		return Employee{}, fmt.Errorf("open bank account of %s: %w", e.ID, err)
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context, filter Filter) ([]Employee, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = append(where, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(COALESCE(national_id, '')) LIKE $%d)", len(args), len(args), len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + employeeColumns + " FROM employees WHERE " + clause + " ORDER BY last_name, first_name"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := s.scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return s.scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
}

func (s *Store) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	bankEnc, err := s.Sealer.Seal(in.BankAccount)
	if err != nil {
		return Employee{}, fmt.Errorf("seal bank account: %w", err)
	}
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, position, national_id, email, phone, bank_account_enc, gross_salary, hire_date, status)
    VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),$7,$8,$9,$10)
    RETURNING `+employeeColumns,
		in.FirstName, in.LastName, in.Position, in.NationalID, in.Email, in.Phone, bankEnc, in.GrossSalary, in.HireDate, StatusActive))
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (Employee, error) {
	bankEnc, err := s.Sealer.Seal(in.BankAccount)
	if err != nil {
		return Employee{}, fmt.Errorf("seal bank account: %w", err)
	}
	emp, err := s.scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, position = $4, national_id = NULLIF($5,''), email = NULLIF($6,''),
        phone = NULLIF($7,''), bank_account_enc = $8, gross_salary = $9, hire_date = $10, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns,
		id, in.FirstName, in.LastName, in.Position, in.NationalID, in.Email, in.Phone, bankEnc, in.GrossSalary, in.HireDate))
	if querier.ViolatesCheck(err, terminationAfterHire) {
		return Employee{}, ErrTerminationBeforeHire
	}
	return emp, err
}

func (s *Store) TerminateEmployee(ctx context.Context, id string, terminationDate time.Time) (Employee, error) {
	return s.scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET status = $2, termination_date = $3, updated_at = now()
    WHERE id = $1
    RETURNING `+employeeColumns, id, StatusInactive, terminationDate))
}

func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET status = $2,
        termination_date = CASE WHEN $2 = 'inactive' THEN COALESCE(termination_date, CURRENT_DATE) ELSE NULL END,
        updated_at = now()
    WHERE id = $1
  `, id, status)
	switch {
	case querier.ViolatesCheck(err, terminationAfterHire):
		return ErrTerminationBeforeHire
	case querier.NotFound(err):
		return ErrEmployeeNotFound
	case err != nil:
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
