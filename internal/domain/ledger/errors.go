package ledger

import "errors"

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("transaction type must be income or expense")
	ErrTypeMismatch        = errors.New("transaction type does not match category")
	ErrNonPositiveAmount   = errors.New("amount must be greater than zero")
	ErrCategoryNameTaken   = errors.New("category name already exists")
	ErrInvalidPeriod       = errors.New("invalid summary period")
)
