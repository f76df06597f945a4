package staff

import (
	"testing"

	"schooloffice/internal/domain/auth"
)

func sampleEmployee() Employee {
	return Employee{NationalID: "0801-1990-12345", BankAccount: "2001-0045-8812"}
}

func TestFilterSensitiveFieldsPayingRoles(t *testing.T) {
	for _, role := range []string{auth.RoleAdmin, auth.RoleAccountant} {
		emp := sampleEmployee()
		FilterSensitiveFields(&emp, role)
		if emp.NationalID == "" || emp.BankAccount == "" {
			t.Fatalf("%s should retain sensitive fields", role)
		}
	}
}

func TestFilterSensitiveFieldsViewer(t *testing.T) {
	emp := sampleEmployee()
	FilterSensitiveFields(&emp, auth.RoleViewer)
	if emp.NationalID != "" || emp.BankAccount != "" {
		t.Fatal("viewer should not see sensitive fields")
	}
}

func TestForAuditMasksBankAccount(t *testing.T) {
	emp := sampleEmployee()
	masked := emp.ForAudit()
	if masked.BankAccount != "**********8812" {
		t.Fatalf("unexpected mask %q", masked.BankAccount)
	}
	if emp.BankAccount != "2001-0045-8812" {
		t.Fatal("original must not change")
	}
	if short := (Employee{BankAccount: "12"}).ForAudit(); short.BankAccount != "12" {
		t.Fatalf("short account changed: %q", short.BankAccount)
	}
}
