package staff

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID              string          `json:"id"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Position        string          `json:"position"`
	NationalID      string          `json:"nationalId,omitempty"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	BankAccount     string          `json:"bankAccount,omitempty"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	HireDate        time.Time       `json:"hireDate"`
	TerminationDate *time.Time      `json:"terminationDate,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) Active() bool {
	return e.Status == StatusActive
}

// EmployeeInput is the writable part of an employee record.
type EmployeeInput struct {
	FirstName   string
	LastName    string
	Position    string
	NationalID  string
	Email       string
	Phone       string
	BankAccount string
	GrossSalary decimal.Decimal
	HireDate    time.Time
}

type Filter struct {
	Status string
	Search string
	Limit  int
	Offset int
}
