package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/pipeline"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the decision memo",
	Long: `Joins daily_kpis.csv with daily_quality.csv on date and writes the
decision memo: the lowest- and highest-trust days with their primary
defect reasons.

Example:
  go run ./cmd/trustlens report`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, log, runner, err := setup()
	if err != nil {
		return err
	}

	if err := runner.BuildReport(); err != nil {
		log.WithError(err).Error("Report build failed")
		return err
	}

	fmt.Printf("Wrote %s\n", filepath.Join(cfg.Paths.ReportDir, pipeline.MemoFile))
	return nil
}
