package staff

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrInvalidStatus         = errors.New("invalid employee status")
	ErrTerminationBeforeHire = errors.New("termination date before hire date")
	ErrAlreadyTerminated     = errors.New("employee already terminated")
	ErrNegativeSalary        = errors.New("gross salary must not be negative")
	ErrNameRequired          = errors.New("first and last name are required")
)
