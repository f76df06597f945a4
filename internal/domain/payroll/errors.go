package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrRecordNotFound         = errors.New("payroll record not found")
	ErrPayrollAlreadyRecorded = errors.New("payroll already recorded for employee and period")
	ErrEmployeeInactive       = errors.New("employee is not active")
	ErrPayrollCategoryMissing = errors.New("payroll expense category not configured")
)

// InvalidInputError names the offending input. It matches ErrInvalidInput
// under errors.Is.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
