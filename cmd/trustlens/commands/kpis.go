package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// kpisCmd represents the kpis command
var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Compute the daily KPI table",
	Long: `Reads events.csv and writes daily_kpis.csv with one row per day:
dau, purchasers, revenue, conversion_rate, d1_retention_proxy,
revenue_per_dau.

Example:
  go run ./cmd/trustlens kpis`,
	RunE: runKPIs,
}

func init() {
	rootCmd.AddCommand(kpisCmd)
}

func runKPIs(cmd *cobra.Command, args []string) error {
	_, log, runner, err := setup()
	if err != nil {
		return err
	}

	kpis, err := runner.ComputeKPIs()
	if err != nil {
		log.WithError(err).Error("KPI computation failed")
		return err
	}

	fmt.Printf("Computed KPIs for %d days -> %s\n", len(kpis), runner.Store().KPIPath())
	return nil
}
