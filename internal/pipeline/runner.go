package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/internal/generator"
	"github.com/trustlens/trustlens/internal/kpi"
	"github.com/trustlens/trustlens/internal/quality"
	"github.com/trustlens/trustlens/internal/report"
	"github.com/trustlens/trustlens/internal/storage"
	"github.com/trustlens/trustlens/pkg/config"
	"github.com/trustlens/trustlens/pkg/logger"
)

// MemoFile is the decision memo name under the report directory
const MemoFile = "decision_memo.md"

// Runner orchestrates the batch pipeline:
// generate → daily KPIs → quality/trust → decision memo.
// Each stage reads and writes flat tables through the Store, so stages
// can also be run individually from the CLI.
type Runner struct {
	config    *config.Config
	logger    *logger.Logger
	store     *storage.Store
	generator *generator.Generator
	kpis      *kpi.Aggregator
	quality   *quality.Engine
	memo      *report.MemoBuilder
}

// RunResult summarizes one pipeline run
type RunResult struct {
	RunID        string        `json:"run_id"`
	Events       int           `json:"events"`
	Days         int           `json:"days"`
	LowTrustDays int           `json:"low_trust_days"`
	Duration     time.Duration `json:"duration"`
}

// New creates a fully wired pipeline runner
func New(cfg *config.Config, log *logger.Logger) *Runner {
	return &Runner{
		config:    cfg,
		logger:    log.WithComponent("pipeline"),
		store:     storage.New(cfg.Paths.DataDir, log),
		generator: generator.New(cfg.Generator, log),
		kpis:      kpi.NewAggregator(log),
		quality:   quality.NewEngine(QualityConfig(cfg), log),
		memo:      report.NewMemoBuilder(log),
	}
}

// QualityConfig maps app configuration onto the quality engine config
func QualityConfig(cfg *config.Config) quality.Config {
	return quality.Config{
		BaselineWindow:        cfg.Quality.BaselineWindow,
		CompletenessThreshold: cfg.Quality.CompletenessThreshold,
		VolumeZThreshold:      cfg.Quality.VolumeZThreshold,
		DriftScore:            cfg.Quality.DriftScore,
		AnomalyScore:          cfg.Quality.AnomalyScore,
		VolumePolicy:          quality.VolumePolicy(cfg.Quality.VolumePolicy),
	}
}

// Run executes the full pipeline end to end
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	log := r.logger.WithField("run_id", runID)
	log.Info("Pipeline run started")

	events, err := r.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate events: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := r.ComputeKPIs(); err != nil {
		return nil, fmt.Errorf("compute kpis: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := r.ComputeQuality()
	if err != nil {
		return nil, fmt.Errorf("compute quality: %w", err)
	}

	if err := r.BuildReport(); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	result := &RunResult{
		RunID:    runID,
		Events:   len(events),
		Days:     len(records),
		Duration: time.Since(start),
	}
	for _, rec := range records {
		if rec.TrustScore < 70 {
			result.LowTrustDays++
		}
	}

	log.WithFields(map[string]interface{}{
		"events":         result.Events,
		"days":           result.Days,
		"low_trust_days": result.LowTrustDays,
		"duration":       result.Duration,
	}).Info("Pipeline run completed")

	return result, nil
}

// Generate produces the synthetic event stream and persists it
func (r *Runner) Generate() ([]contracts.Event, error) {
	events, err := r.generator.Generate()
	if err != nil {
		return nil, err
	}
	if err := r.store.SaveEvents(events); err != nil {
		return nil, err
	}
	return events, nil
}

// ComputeKPIs loads the event table and writes the daily KPI table
func (r *Runner) ComputeKPIs() ([]contracts.DailyKPI, error) {
	events, err := r.store.LoadEvents()
	if err != nil {
		return nil, err
	}

	kpis := r.kpis.Compute(events)
	if err := r.store.SaveKPIs(kpis); err != nil {
		return nil, err
	}
	return kpis, nil
}

// ComputeQuality loads the event table and writes the daily quality table
func (r *Runner) ComputeQuality() ([]contracts.DailyQualityRecord, error) {
	events, err := r.store.LoadEvents()
	if err != nil {
		return nil, err
	}

	records, err := r.quality.Run(events)
	if err != nil {
		return nil, err
	}
	if err := r.store.SaveQuality(records); err != nil {
		return nil, err
	}
	return records, nil
}

// BuildReport joins the persisted tables into the decision memo
func (r *Runner) BuildReport() error {
	kpis, err := r.store.LoadKPIs()
	if err != nil {
		return err
	}
	records, err := r.store.LoadQuality()
	if err != nil {
		return err
	}

	memo := r.memo.Build(kpis, records)

	if err := os.MkdirAll(r.config.Paths.ReportDir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(r.config.Paths.ReportDir, MemoFile)
	if err := os.WriteFile(path, []byte(memo), 0o644); err != nil {
		return fmt.Errorf("write memo: %w", err)
	}

	r.logger.WithField("path", path).Info("Wrote decision memo")
	return nil
}

// Store exposes the underlying table store (used by the API server)
func (r *Runner) Store() *storage.Store {
	return r.store
}
