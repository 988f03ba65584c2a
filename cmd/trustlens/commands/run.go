package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/pipeline"
	"github.com/trustlens/trustlens/internal/storage"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long: `Runs the whole batch pipeline end to end:

1. Generate synthetic events (with injected failures)
2. Compute daily KPIs
3. Run data quality checks + trust score
4. Write the decision memo

Example:
  go run ./cmd/trustlens run`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, log, runner, err := setup()
	if err != nil {
		return err
	}

	result, err := runner.Run(context.Background())
	if err != nil {
		log.WithError(err).Error("Pipeline run failed")
		return err
	}

	fmt.Println("DONE.")
	fmt.Println("Open:")
	fmt.Printf(" - %s\n", filepath.Join(cfg.Paths.DataDir, storage.QualityFile))
	fmt.Printf(" - %s\n", filepath.Join(cfg.Paths.DataDir, storage.KPIFile))
	fmt.Printf(" - %s\n", filepath.Join(cfg.Paths.ReportDir, pipeline.MemoFile))
	fmt.Printf("\nrun_id=%s events=%d days=%d low_trust_days=%d\n",
		result.RunID, result.Events, result.Days, result.LowTrustDays)

	return nil
}
