package payroll

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageText inflates every content stream of a rendered PDF.
func pageText(t *testing.T, pdf []byte) []byte {
	t.Helper()
	var out []byte
	rest := pdf
	for {
		i := bytes.Index(rest, []byte("\nstream\n"))
		if i < 0 {
			return out
		}
		rest = rest[i+len("\nstream\n"):]
		end := bytes.Index(rest, []byte("\nendstream"))
		require.GreaterOrEqual(t, end, 0)
		if r, err := zlib.NewReader(bytes.NewReader(rest[:end])); err == nil {
			data, _ := io.ReadAll(r)
			out = append(out, data...)
		}
		rest = rest[end:]
	}
}

func TestRenderPayslipSpanishText(t *testing.T) {
	pdf, err := RenderPayslip(Record{
		EmployeeName:  "Begoña Núñez",
		Month:         3,
		Year:          2025,
		PaymentMethod: "depósito",
		Gross:         d("20000"),
		Net:           d("16963.33"),
		AmountPaid:    d("16963.33"),
	}, "NIO")
	require.NoError(t, err)

	text := pageText(t, pdf)
	assert.Contains(t, string(text), "Employee: Bego\xf1a N\xfa\xf1ez")
	assert.Contains(t, string(text), "Payment method: dep\xf3sito")
	assert.NotContains(t, string(text), "ñ")
}
