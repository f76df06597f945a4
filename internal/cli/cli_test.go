package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooloffice/internal/domain/payroll"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "withholding")
	assert.Contains(t, names, "employer-cost")
	assert.Contains(t, names, "liquidation")
}

func TestWithholdingCmd_Table(t *testing.T) {
	out, err := execute(t, "withholding", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "Social security: 1400.00")
	assert.Contains(t, out, "Income tax:      1636.67")
	assert.Contains(t, out, "Net:             16963.33")
}

func TestWithholdingCmd_JSON(t *testing.T) {
	out, err := execute(t, "withholding", "20000", "--json")
	require.NoError(t, err)

	var result payroll.WithholdingResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "16963.33", result.Net.StringFixed(2))
}

func TestWithholdingCmd_RejectsNegativeGross(t *testing.T) {
	_, err := execute(t, "withholding", "--", "-10")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrInvalidInput)
}

func TestWithholdingCmd_RejectsGarbage(t *testing.T) {
	_, err := execute(t, "withholding", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a decimal amount")
}

func TestWithholdingCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "withholding")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestEmployerCostCmd(t *testing.T) {
	out, err := execute(t, "employer-cost", "20000")
	require.NoError(t, err)
	assert.Contains(t, out, "Employer social security: 4300.00")
	assert.Contains(t, out, "Training levy:            400.00")
	assert.Contains(t, out, "Total:                    4700.00")
}

func TestLiquidationCmd_CappedIndemnity(t *testing.T) {
	out, err := execute(t, "liquidation", "--gross", "10000", "--hired", "2010-01-01", "--end", "2020-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Indemnity:    50000.00")
	assert.Contains(t, out, "Aguinaldo:    849.32 (31 days)")
	assert.Contains(t, out, "Total:        50849.32")
}

func TestLiquidationCmd_VacationDays(t *testing.T) {
	out, err := execute(t, "liquidation", "--gross", "9000", "--hired", "2020-01-01", "--end", "2020-01-01", "--vacation-days", "15", "--json")
	require.NoError(t, err)

	var result payroll.LiquidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "4500.00", result.VacationPay.StringFixed(2))
	assert.True(t, result.Indemnity.IsZero())
}

func TestLiquidationCmd_EndBeforeHire(t *testing.T) {
	_, err := execute(t, "liquidation", "--gross", "9000", "--hired", "2020-01-01", "--end", "2019-01-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrInvalidInput)
}

func TestLiquidationCmd_RequiresGross(t *testing.T) {
	_, err := execute(t, "liquidation", "--hired", "2020-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gross")
}

func TestLiquidationCmd_BadDate(t *testing.T) {
	_, err := execute(t, "liquidation", "--gross", "9000", "--hired", "01/02/2020")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}
