package staff

import (
	"strings"

	"schooloffice/internal/domain/auth"
)

// FilterSensitiveFields clears identity and banking details for roles that
// can read staff records but do not pay them.
func FilterSensitiveFields(emp *Employee, role string) {
	if role == auth.RoleAdmin || role == auth.RoleAccountant {
		return
	}
	emp.NationalID = ""
	emp.BankAccount = ""
}

// ForAudit returns a copy safe to store in the audit trail: the bank account
// keeps only its last four characters.
func (e Employee) ForAudit() Employee {
	e.BankAccount = maskTail(e.BankAccount, 4)
	return e
}

func maskTail(value string, keep int) string {
	runes := []rune(value)
	if len(runes) <= keep {
		return value
	}
	return strings.Repeat("*", len(runes)-keep) + string(runes[len(runes)-keep:])
}
