package payroll

import (
	"context"

	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/domain/staff"
)

type StoreAPI interface {
	Employee(ctx context.Context, id string) (staff.Employee, error)
	ActiveEmployees(ctx context.Context) ([]staff.Employee, error)
	PayrollCategory(ctx context.Context) (ledger.Category, error)
	RecordExists(ctx context.Context, employeeID string, month, year int) (bool, error)
	// SaveRecord writes the ledger entry and the payroll record atomically.
	SaveRecord(ctx context.Context, rec Record, entry ledger.NewTransaction) (Record, error)
	GetRecord(ctx context.Context, id string) (Record, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int, error)
}
