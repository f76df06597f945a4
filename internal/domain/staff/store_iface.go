package staff

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListEmployees(ctx context.Context, filter Filter) ([]Employee, int, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error)
	UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (Employee, error)
	TerminateEmployee(ctx context.Context, id string, terminationDate time.Time) (Employee, error)
	SetStatus(ctx context.Context, id, status string) error
}
