package auth

import "context"

const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
	RoleViewer     = "viewer"
)

const (
	PermStaffRead    = "staff.read"
	PermStaffWrite   = "staff.write"
	PermLedgerRead   = "ledger.read"
	PermLedgerWrite  = "ledger.write"
	PermPayrollRead  = "payroll.read"
	PermPayrollWrite = "payroll.write"
	PermAuditRead    = "audit.read"
)

var DefaultPermissions = []string{
	PermStaffRead,
	PermStaffWrite,
	PermLedgerRead,
	PermLedgerWrite,
	PermPayrollRead,
	PermPayrollWrite,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleAdmin: DefaultPermissions,
	RoleAccountant: {
		PermStaffRead,
		PermLedgerRead,
		PermLedgerWrite,
		PermPayrollRead,
		PermPayrollWrite,
	},
	RoleViewer: {
		PermStaffRead,
		PermLedgerRead,
		PermPayrollRead,
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// RolePermissionStore answers permission checks from RolePermissions.
type RolePermissionStore struct{}

func (RolePermissionStore) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}
