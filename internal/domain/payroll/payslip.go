package payroll

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// PayslipPDF renders the payslip of a recorded payment.
func (s *Service) PayslipPDF(ctx context.Context, recordID string) ([]byte, error) {
	rec, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return RenderPayslip(rec, s.currency)
}

func RenderPayslip(rec Record, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; names and methods arrive as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Employee: %s", rec.EmployeeName)))
	pdf.Ln(7)
	period := time.Date(rec.Year, time.Month(rec.Month), 1, 0, 0, 0, 0, time.UTC)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Payment method: %s", rec.PaymentMethod)))
	pdf.Ln(10)

	lines := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Gross salary", rec.Gross},
		{"Social security (employee)", rec.SocialSecurityEmployee.Neg()},
		{"Income tax", rec.IncomeTax.Neg()},
		{"Net salary", rec.Net},
		{"Amount paid", rec.AmountPaid},
	}
	for _, line := range lines {
		pdf.CellFormat(100, 8, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, line.amount.StringFixed(2)+" "+currency, "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Employer contributions: social security %s, training levy %s %s",
		rec.EmployerSocialSecurity.StringFixed(2), rec.TrainingLevy.StringFixed(2), currency))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
