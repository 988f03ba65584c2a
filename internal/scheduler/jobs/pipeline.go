package jobs

import (
	"context"

	"github.com/trustlens/trustlens/internal/pipeline"
	"github.com/trustlens/trustlens/pkg/logger"
)

// PipelineJob re-runs the whole batch pipeline on a schedule. There is
// no incremental mode; every tick is a full recomputation.
type PipelineJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewPipelineJob creates a new pipeline job
func NewPipelineJob(runner *pipeline.Runner, schedule string, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "pipeline_run"
}

// Schedule returns the cron schedule expression
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes the full pipeline
func (j *PipelineJob) Run(ctx context.Context) error {
	result, err := j.runner.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":         result.RunID,
		"days":           result.Days,
		"low_trust_days": result.LowTrustDays,
	}).Info("Scheduled pipeline run completed")

	return nil
}
