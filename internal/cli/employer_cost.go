package cli

import (
	"github.com/spf13/cobra"

	"schooloffice/internal/domain/payroll"
)

var employerCostCmd = &cobra.Command{
	Use:   "employer-cost [gross]",
	Short: "Show the employer contributions owed on a monthly gross salary",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployerCost,
}

func init() {
	rootCmd.AddCommand(employerCostCmd)
}

func runEmployerCost(cmd *cobra.Command, args []string) error {
	gross, err := parseAmount("gross", args[0])
	if err != nil {
		return err
	}
	cost, err := payroll.ComputeEmployerCosts(gross)
	if err != nil {
		return err
	}
	cost = cost.Rounded()

	if outputJSON {
		return printJSON(cmd, cost)
	}
	cmd.Printf("Employer social security: %s\n", money(cost.EmployerSocialSecurity))
	cmd.Printf("Training levy:            %s\n", money(cost.TrainingLevy))
	cmd.Printf("Total:                    %s\n", money(cost.Total))
	return nil
}
