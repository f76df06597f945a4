package cli

import (
	"github.com/spf13/cobra"

	"schooloffice/internal/domain/payroll"
)

var withholdingCmd = &cobra.Command{
	Use:   "withholding [gross]",
	Short: "Show the employee withholdings for a monthly gross salary",
	Args:  cobra.ExactArgs(1),
	RunE:  runWithholding,
}

func init() {
	rootCmd.AddCommand(withholdingCmd)
}

func runWithholding(cmd *cobra.Command, args []string) error {
	gross, err := parseAmount("gross", args[0])
	if err != nil {
		return err
	}
	result, err := payroll.ComputeWithholding(gross)
	if err != nil {
		return err
	}
	result = result.Rounded()

	if outputJSON {
		return printJSON(cmd, result)
	}
	cmd.Printf("Gross:           %s\n", money(result.Gross))
	cmd.Printf("Social security: %s\n", money(result.SocialSecurityEmployee))
	cmd.Printf("Income tax:      %s\n", money(result.IncomeTax))
	cmd.Printf("Net:             %s\n", money(result.Net))
	return nil
}
