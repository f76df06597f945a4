package staff

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	employees map[string]Employee
	seq       int
}

func newMemStore() *memStore {
	return &memStore{employees: map[string]Employee{}}
}

func (m *memStore) ListEmployees(ctx context.Context, filter Filter) ([]Employee, int, error) {
	var out []Employee
	for _, e := range m.employees {
		if filter.Status == "" || e.Status == filter.Status {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (m *memStore) GetEmployee(ctx context.Context, id string) (Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, nil
}

func (m *memStore) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	m.seq++
	e := Employee{
		ID:          "emp-" + strconv.Itoa(m.seq),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Position:    in.Position,
		Email:       in.Email,
		GrossSalary: in.GrossSalary,
		HireDate:    in.HireDate,
		Status:      StatusActive,
	}
	m.employees[e.ID] = e
	return e, nil
}

func (m *memStore) UpdateEmployee(ctx context.Context, id string, in EmployeeInput) (Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	e.FirstName, e.LastName, e.GrossSalary, e.HireDate = in.FirstName, in.LastName, in.GrossSalary, in.HireDate
	m.employees[id] = e
	return e, nil
}

func (m *memStore) TerminateEmployee(ctx context.Context, id string, terminationDate time.Time) (Employee, error) {
	e := m.employees[id]
	e.Status = StatusInactive
	e.TerminationDate = &terminationDate
	m.employees[id] = e
	return e, nil
}

func (m *memStore) SetStatus(ctx context.Context, id, status string) error {
	e, ok := m.employees[id]
	if !ok {
		return ErrEmployeeNotFound
	}
	e.Status = status
	m.employees[id] = e
	return nil
}

func TestCreateNormalizesInput(t *testing.T) {
	svc := NewService(newMemStore())
	e, err := svc.Create(context.Background(), EmployeeInput{
		FirstName:   "  Ana ",
		LastName:    "Lopez",
		Email:       " Ana@School.COM ",
		GrossSalary: decimal.NewFromInt(15000),
		HireDate:    time.Date(2022, 3, 1, 15, 4, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", e.FirstName)
	assert.Equal(t, "ana@school.com", e.Email)
	assert.Equal(t, time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC), e.HireDate)
	assert.Equal(t, "Ana Lopez", e.FullName())
	assert.True(t, e.Active())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Create(context.Background(), EmployeeInput{FirstName: "Ana"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(context.Background(), EmployeeInput{FirstName: "Ana", LastName: "Lopez", GrossSalary: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativeSalary)
}

func TestTerminate(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()
	e, err := svc.Create(ctx, EmployeeInput{FirstName: "Luis", LastName: "Ruiz", HireDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	_, err = svc.Terminate(ctx, e.ID, time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrTerminationBeforeHire)

	terminated, err := svc.Terminate(ctx, e.ID, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, terminated.Status)
	require.NotNil(t, terminated.TerminationDate)

	_, err = svc.Terminate(ctx, e.ID, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrAlreadyTerminated)

	_, err = svc.Terminate(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMemStore())
	_, _, err := svc.List(context.Background(), Filter{Status: "retired"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.ErrorIs(t, svc.SetStatus(context.Background(), "x", "retired"), ErrInvalidStatus)
}

func TestUpdateKeepsHireBeforeTermination(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()
	e, err := svc.Create(ctx, EmployeeInput{FirstName: "Luis", LastName: "Ruiz", HireDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = svc.Terminate(ctx, e.ID, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = svc.Update(ctx, e.ID, EmployeeInput{FirstName: "Luis", LastName: "Ruiz", HireDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrTerminationBeforeHire)

	updated, err := svc.Update(ctx, e.ID, EmployeeInput{FirstName: "Luis", LastName: "Ruiz", HireDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), updated.HireDate)

	_, err = svc.Update(ctx, "missing", EmployeeInput{FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestDeactivateBeforeHireDate(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	future, err := svc.Create(ctx, EmployeeInput{FirstName: "Eva", LastName: "Mora", HireDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetStatus(ctx, future.ID, StatusInactive), ErrTerminationBeforeHire)
	assert.Equal(t, StatusActive, store.employees[future.ID].Status)
	require.NoError(t, svc.SetStatus(ctx, future.ID, StatusActive))

	current, err := svc.Create(ctx, EmployeeInput{FirstName: "Eva", LastName: "Mora", HireDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(ctx, current.ID, StatusInactive))
	assert.Equal(t, StatusInactive, store.employees[current.ID].Status)

	assert.ErrorIs(t, svc.SetStatus(ctx, "missing", StatusInactive), ErrEmployeeNotFound)
}
