package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"schooloffice/internal/domain/payroll"
)

var (
	liquidationGross   string
	liquidationHired   string
	liquidationEnd     string
	liquidationVacDays string
)

var liquidationCmd = &cobra.Command{
	Use:   "liquidation",
	Short: "Compute the end-of-contract settlement for an employee",
	Long: `Computes indemnity, unused vacation pay and the prorated year-end bonus
(aguinaldo) owed when a contract ends. Dates are YYYY-MM-DD; --end defaults
to today.`,
	Args: cobra.NoArgs,
	RunE: runLiquidation,
}

func init() {
	liquidationCmd.Flags().StringVar(&liquidationGross, "gross", "", "monthly gross salary")
	liquidationCmd.Flags().StringVar(&liquidationHired, "hired", "", "hire date")
	liquidationCmd.Flags().StringVar(&liquidationEnd, "end", "", "contract end date")
	liquidationCmd.Flags().StringVar(&liquidationVacDays, "vacation-days", "0", "accrued unused vacation days")
	_ = liquidationCmd.MarkFlagRequired("gross")
	_ = liquidationCmd.MarkFlagRequired("hired")
	rootCmd.AddCommand(liquidationCmd)
}

func runLiquidation(cmd *cobra.Command, _ []string) error {
	gross, err := parseAmount("gross", liquidationGross)
	if err != nil {
		return err
	}
	days, err := parseAmount("vacation-days", liquidationVacDays)
	if err != nil {
		return err
	}
	hired, err := parseDate("hired", liquidationHired)
	if err != nil {
		return err
	}
	end := time.Now().UTC()
	if liquidationEnd != "" {
		if end, err = parseDate("end", liquidationEnd); err != nil {
			return err
		}
	}

	result, err := payroll.ComputeLiquidation(payroll.LiquidationInput{
		GrossSalary:         gross,
		HireDate:            hired,
		EndDate:             end,
		AccruedVacationDays: days,
	})
	if err != nil {
		return err
	}
	result = result.Rounded()

	if outputJSON {
		return printJSON(cmd, result)
	}
	cmd.Printf("Tenure:       %dy %dm %dd (%s years)\n", result.Tenure.Years, result.Tenure.Months, result.Tenure.Days, result.YearsWorked.String())
	cmd.Printf("Indemnity:    %s\n", money(result.Indemnity))
	cmd.Printf("Vacation pay: %s\n", money(result.VacationPay))
	cmd.Printf("Aguinaldo:    %s (%d days)\n", money(result.Aguinaldo), result.AguinaldoDays)
	cmd.Printf("Total:        %s\n", money(result.Total))
	return nil
}

func parseDate(name, raw string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q is not a YYYY-MM-DD date", name, raw)
	}
	return t, nil
}
