package payroll

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const batchConcurrency = 8

// PayrollLine is the full monthly computation for one employee.
type PayrollLine struct {
	EmployeeID   string            `json:"employeeId"`
	Withholding  WithholdingResult `json:"withholding"`
	EmployerCost EmployerCost      `json:"employerCost"`
}

// ComputeBatch computes payroll lines for many employees concurrently. The
// first invalid salary cancels the remaining work and is returned wrapped
// with the employee id.
func ComputeBatch(ctx context.Context, grossByEmployee map[string]decimal.Decimal) (map[string]PayrollLine, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	var mu sync.Mutex
	out := make(map[string]PayrollLine, len(grossByEmployee))
	for employeeID, gross := range grossByEmployee {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			line, err := computeLine(employeeID, gross)
			if err != nil {
				return fmt.Errorf("employee %s: %w", employeeID, err)
			}
			mu.Lock()
			out[employeeID] = line
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func computeLine(employeeID string, gross decimal.Decimal) (PayrollLine, error) {
	withholding, err := ComputeWithholding(gross)
	if err != nil {
		return PayrollLine{}, err
	}
	return PayrollLine{
		EmployeeID:   employeeID,
		Withholding:  withholding.Rounded(),
		EmployerCost: EmployerCosts(gross).Rounded(),
	}, nil
}
