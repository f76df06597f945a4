package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Transaction struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    string          `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	PaymentMethod string          `json:"paymentMethod"`
	Reference     string          `json:"reference,omitempty"`
	EmployeeID    string          `json:"employeeId,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type NewTransaction struct {
	Type          string
	Amount        decimal.Decimal
	CategoryID    string
	PaymentMethod string
	Reference     string
	EmployeeID    string
	Date          time.Time
}

type Filter struct {
	Type       string
	CategoryID string
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

type MonthlySummary struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
