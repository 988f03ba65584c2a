package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/scheduler"
	"github.com/trustlens/trustlens/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-run the pipeline on a cron schedule",
	Long: `Starts the scheduler and re-runs the full batch pipeline on the
configured cron expression. Every tick is a full recomputation; there
is no incremental mode.

Example:
  go run ./cmd/trustlens schedule
  SCHEDULE_SPEC="0 6 * * *" go run ./cmd/trustlens schedule`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, runner, err := setup()
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	job := jobs.NewPipelineJob(runner, cfg.ScheduleSpec, log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add pipeline job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	fmt.Printf("Scheduler running (spec %q)\n", cfg.ScheduleSpec)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
