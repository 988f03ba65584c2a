package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// qualityCmd represents the quality command
var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Run data quality checks + trust score",
	Long: `Reads events.csv, computes the five per-day quality dimensions
(completeness, schema, uniqueness, volume, validity), aggregates them
into a trust score and tags each day with its defect reasons. Writes
daily_quality.csv.

Example:
  go run ./cmd/trustlens quality
  QUALITY_VOLUME_POLICY=exclude go run ./cmd/trustlens quality`,
	RunE: runQuality,
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}

func runQuality(cmd *cobra.Command, args []string) error {
	_, log, runner, err := setup()
	if err != nil {
		return err
	}

	records, err := runner.ComputeQuality()
	if err != nil {
		log.WithError(err).Error("Quality pass failed")
		return err
	}

	lowTrust := 0
	for _, rec := range records {
		if rec.TrustScore < 70 {
			lowTrust++
		}
	}

	fmt.Printf("Scored %d days (%d below trust 70) -> %s\n",
		len(records), lowTrust, runner.Store().QualityPath())
	return nil
}
