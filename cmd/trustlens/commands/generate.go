package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic event table",
	Long: `Generates the synthetic product-analytics event stream, with the
configured failures injected, and writes events.csv.

Injected defects:
- purchase-tracking outage days
- schema drift (purchase renamed to in_app_purchase)
- bot session spike
- timezone shift
- duplicate delivery burst

Example:
  go run ./cmd/trustlens generate
  GEN_SEED=42 go run ./cmd/trustlens generate`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_, log, runner, err := setup()
	if err != nil {
		return err
	}

	events, err := runner.Generate()
	if err != nil {
		log.WithError(err).Error("Event generation failed")
		return err
	}

	fmt.Printf("Generated %d events -> %s\n", len(events), runner.Store().EventsPath())
	return nil
}
