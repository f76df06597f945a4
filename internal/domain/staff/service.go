package staff

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

func (s *Service) List(ctx context.Context, filter Filter) ([]Employee, int, error) {
	if filter.Status != "" && filter.Status != StatusActive && filter.Status != StatusInactive {
		return nil, 0, ErrInvalidStatus
	}
	return s.store.ListEmployees(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) Create(ctx context.Context, in EmployeeInput) (Employee, error) {
	in, err := s.normalize(in)
	if err != nil {
		return Employee{}, err
	}
	return s.store.CreateEmployee(ctx, in)
}

// Update replaces the editable fields. A terminated employee's hire date
// cannot move past the termination date.
func (s *Service) Update(ctx context.Context, id string, in EmployeeInput) (Employee, error) {
	in, err := s.normalize(in)
	if err != nil {
		return Employee{}, err
	}
	current, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if current.TerminationDate != nil && dateOnly(*current.TerminationDate).Before(in.HireDate) {
		return Employee{}, ErrTerminationBeforeHire
	}
	return s.store.UpdateEmployee(ctx, id, in)
}

// Terminate marks the employee inactive as of terminationDate, which must
// not precede the hire date.
func (s *Service) Terminate(ctx context.Context, id string, terminationDate time.Time) (Employee, error) {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if employee.TerminationDate != nil {
		return Employee{}, ErrAlreadyTerminated
	}
	if terminationDate.IsZero() {
		terminationDate = s.now()
	}
	if dateOnly(terminationDate).Before(dateOnly(employee.HireDate)) {
		return Employee{}, ErrTerminationBeforeHire
	}
	return s.store.TerminateEmployee(ctx, id, dateOnly(terminationDate))
}

// SetStatus toggles the status. Deactivating without a termination date
// terminates as of today, which must not precede the hire date.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusInactive {
		return ErrInvalidStatus
	}
	if status == StatusInactive {
		current, err := s.store.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		if current.TerminationDate == nil && dateOnly(s.now()).Before(dateOnly(current.HireDate)) {
			return ErrTerminationBeforeHire
		}
	}
	return s.store.SetStatus(ctx, id, status)
}

func (s *Service) normalize(in EmployeeInput) (EmployeeInput, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Position = strings.TrimSpace(in.Position)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" {
		return in, ErrNameRequired
	}
	if in.GrossSalary.IsNegative() {
		return in, ErrNegativeSalary
	}
	if in.HireDate.IsZero() {
		in.HireDate = s.now()
	}
	in.HireDate = dateOnly(in.HireDate)
	return in, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
