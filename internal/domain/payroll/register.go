package payroll

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

var registerHeader = []string{
	"employee_id", "employee_name", "month", "year", "gross", "social_security", "income_tax",
	"net", "amount_paid", "employer_social_security", "training_levy", "payment_method",
}

// WriteRegister writes the payroll register of a period as CSV.
func (s *Service) WriteRegister(ctx context.Context, w io.Writer, month, year int) error {
	records, _, err := s.store.ListRecords(ctx, RecordFilter{Month: month, Year: year})
	if err != nil {
		return err
	}
	return WriteRegisterCSV(w, records)
}

func WriteRegisterCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(registerHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.EmployeeID,
			r.EmployeeName,
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Year),
			r.Gross.StringFixed(2),
			r.SocialSecurityEmployee.StringFixed(2),
			r.IncomeTax.StringFixed(2),
			r.Net.StringFixed(2),
			r.AmountPaid.StringFixed(2),
			r.EmployerSocialSecurity.StringFixed(2),
			r.TrainingLevy.StringFixed(2),
			r.PaymentMethod,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
