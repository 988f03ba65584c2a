package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trustlens",
	Short: "trustlens - KPI integrity and trust scoring pipeline",
	Long: `trustlens batch pipeline

Synthesizes a product-analytics event stream, derives daily business
KPIs, scores each day's data quality and produces a composite trust
score that tells a real KPI movement from a data-pipeline defect.

Usage:
  go run ./cmd/trustlens [command]

Examples:
  go run ./cmd/trustlens run
  go run ./cmd/trustlens quality
  go run ./cmd/trustlens serve --port 8087`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default from DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
