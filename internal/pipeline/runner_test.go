package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/config"
	"github.com/trustlens/trustlens/pkg/logger"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{
		Env: "development",
		Paths: config.PathsConfig{
			DataDir:   filepath.Join(root, "data"),
			ReportDir: filepath.Join(root, "reports"),
		},
		Generator: config.GeneratorConfig{
			Seed:             7,
			StartDate:        "2025-11-01",
			Days:             20,
			Users:            1200,
			OutageDays:       []int{10, 11},
			SchemaDriftDay:   14,
			BotSpikeDay:      16,
			TimezoneShiftDay: -1,
			DuplicateDay:     6,
		},
		Quality: config.QualityConfig{
			BaselineWindow:        7,
			CompletenessThreshold: 0.70,
			VolumeZThreshold:      2.8,
			DriftScore:            0.60,
			AnomalyScore:          0.55,
			VolumePolicy:          "include",
		},
	}

	return New(cfg, logger.NewNop())
}

func TestRunner_EndToEnd(t *testing.T) {
	runner := testRunner(t)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Greater(t, result.Events, 0)
	assert.Greater(t, result.Days, 0)
	assert.Greater(t, result.LowTrustDays, 0, "injected defects must surface as low trust days")

	// Every stage output must be on disk
	store := runner.Store()
	for _, path := range []string{store.EventsPath(), store.KPIPath(), store.QualityPath()} {
		_, err := os.Stat(path)
		require.NoError(t, err, path)
	}

	memo, err := os.ReadFile(filepath.Join(runner.config.Paths.ReportDir, MemoFile))
	require.NoError(t, err)
	assert.Contains(t, string(memo), "# Decision Memo")
}

func TestRunner_QualityReflectsDefects(t *testing.T) {
	runner := testRunner(t)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	records, err := runner.Store().LoadQuality()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	// Late-night level_complete timestamps can spill past the configured
	// span, so the table may cover an extra trailing day. Defect days are
	// located by date, not position.
	driftDay := recordOn(t, records, 14)
	assert.Equal(t, 1, driftDay.SchemaDriftFlag)
	assert.Equal(t, 0.60, driftDay.Scores.Schema)

	spikeDay := recordOn(t, records, 16)
	assert.Equal(t, 1, spikeDay.VolumeAnomalyFlag)
	assert.Equal(t, 0.55, spikeDay.Scores.Volume)

	dupDay := recordOn(t, records, 6)
	assert.Greater(t, dupDay.DuplicateEvents, 0)
	assert.Less(t, dupDay.Scores.Uniqueness, 1.0)
}

// recordOn returns the quality record for the given day offset from the
// configured start date
func recordOn(t *testing.T, records []contracts.DailyQualityRecord, offset int) contracts.DailyQualityRecord {
	t.Helper()

	want := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	for _, rec := range records {
		if rec.Date.Equal(want) {
			return rec
		}
	}
	t.Fatalf("no quality record for %s", want.Format("2006-01-02"))
	return contracts.DailyQualityRecord{}
}

func TestRunner_StagesAreIdempotent(t *testing.T) {
	runner := testRunner(t)

	_, err := runner.Generate()
	require.NoError(t, err)

	first, err := runner.ComputeQuality()
	require.NoError(t, err)
	second, err := runner.ComputeQuality()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunner_StageWithoutEventsFails(t *testing.T) {
	runner := testRunner(t)

	_, err := runner.ComputeKPIs()
	require.Error(t, err)
}

func TestRunner_CanceledContext(t *testing.T) {
	runner := testRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_MalformedEventsTableAborts(t *testing.T) {
	runner := testRunner(t)

	require.NoError(t, os.MkdirAll(runner.config.Paths.DataDir, 0o755))
	bad := "user_id,event_ts,event_name,amount\n1,2025-11-03T10:00:00Z,page_view,\n"
	require.NoError(t, os.WriteFile(runner.Store().EventsPath(), []byte(bad), 0o644))

	_, err := runner.ComputeQuality()
	require.Error(t, err)
}

func TestQualityConfig_Mapping(t *testing.T) {
	cfg := &config.Config{
		Quality: config.QualityConfig{
			BaselineWindow:        5,
			CompletenessThreshold: 0.5,
			VolumeZThreshold:      3.0,
			DriftScore:            0.7,
			AnomalyScore:          0.4,
			VolumePolicy:          "exclude",
		},
	}

	qc := QualityConfig(cfg)
	assert.Equal(t, 5, qc.BaselineWindow)
	assert.Equal(t, 0.5, qc.CompletenessThreshold)
	assert.Equal(t, 3.0, qc.VolumeZThreshold)
	assert.Equal(t, 0.7, qc.DriftScore)
	assert.Equal(t, 0.4, qc.AnomalyScore)
	assert.Equal(t, "exclude", string(qc.VolumePolicy))
}
