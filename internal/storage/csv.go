package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/trustlens/trustlens/internal/contracts"
	"github.com/trustlens/trustlens/pkg/logger"
)

// Table file names under the data directory. Column order and names
// are stable: downstream joins key on them.
const (
	EventsFile  = "events.csv"
	QualityFile = "daily_quality.csv"
	KPIFile     = "daily_kpis.csv"
)

const (
	tsLayout   = time.RFC3339
	dateLayout = "2006-01-02"
)

// Store reads and writes the pipeline's flat tabular files
type Store struct {
	dataDir string
	logger  *logger.Logger
}

// New creates a new Store rooted at dataDir
func New(dataDir string, log *logger.Logger) *Store {
	return &Store{
		dataDir: dataDir,
		logger:  log.WithComponent("storage"),
	}
}

// EventsPath returns the full path of the events table
func (s *Store) EventsPath() string { return filepath.Join(s.dataDir, EventsFile) }

// QualityPath returns the full path of the daily quality table
func (s *Store) QualityPath() string { return filepath.Join(s.dataDir, QualityFile) }

// KPIPath returns the full path of the daily KPI table
func (s *Store) KPIPath() string { return filepath.Join(s.dataDir, KPIFile) }

// SaveEvents writes the raw event table
func (s *Store) SaveEvents(events []contracts.Event) error {
	rows := make([][]string, 0, len(events)+1)
	rows = append(rows, []string{"user_id", "event_ts", "event_name", "amount"})

	for _, ev := range events {
		amount := ""
		if ev.Amount != nil {
			amount = strconv.FormatFloat(*ev.Amount, 'f', -1, 64)
		}
		rows = append(rows, []string{
			strconv.FormatInt(ev.UserID, 10),
			ev.EventTS.UTC().Format(tsLayout),
			ev.EventName,
			amount,
		})
	}

	return s.writeFile(s.EventsPath(), rows)
}

// LoadEvents reads and validates the raw event table. Any contract
// violation aborts with ErrMalformedInput before a single event is
// handed to the engines.
func (s *Store) LoadEvents() ([]contracts.Event, error) {
	rows, err := s.readFile(s.EventsPath())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty, header row required", contracts.ErrMalformedInput, EventsFile)
	}

	cols, err := columnIndex(rows[0], []string{"user_id", "event_ts", "event_name"})
	if err != nil {
		return nil, err
	}
	amountCol := -1
	for i, name := range rows[0] {
		if name == "amount" {
			amountCol = i
		}
	}

	events := make([]contracts.Event, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2 // 1-based, after header

		userID, err := strconv.ParseInt(row[cols["user_id"]], 10, 64)
		if err != nil || userID < 1 {
			return nil, fmt.Errorf("%w: line %d: bad user_id %q", contracts.ErrMalformedInput, line, row[cols["user_id"]])
		}

		ts, err := time.Parse(tsLayout, row[cols["event_ts"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: unparseable event_ts %q", contracts.ErrMalformedInput, line, row[cols["event_ts"]])
		}

		name := row[cols["event_name"]]
		if !contracts.ValidEventName(name) {
			return nil, fmt.Errorf("%w: line %d: event_name %q outside enum", contracts.ErrMalformedInput, line, name)
		}

		ev := contracts.Event{
			UserID:    userID,
			EventTS:   ts.UTC(),
			EventName: name,
		}
		if amountCol >= 0 && amountCol < len(row) && row[amountCol] != "" {
			amount, err := strconv.ParseFloat(row[amountCol], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad amount %q", contracts.ErrMalformedInput, line, row[amountCol])
			}
			ev.Amount = &amount
		}

		events = append(events, ev)
	}

	return events, nil
}

// SaveQuality writes the daily quality table
func (s *Store) SaveQuality(records []contracts.DailyQualityRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{
		"date",
		"purchase_events", "session_events", "duplicate_events",
		"schema_drift_flag", "volume_anomaly_flag", "neg_amount_events",
		"score_completeness", "score_schema", "score_uniqueness", "score_volume", "score_validity",
		"trust_score", "reason",
	})

	for _, rec := range records {
		rows = append(rows, []string{
			rec.Date.UTC().Format(dateLayout),
			strconv.Itoa(rec.PurchaseEvents),
			strconv.Itoa(rec.SessionEvents),
			strconv.Itoa(rec.DuplicateEvents),
			strconv.Itoa(rec.SchemaDriftFlag),
			strconv.Itoa(rec.VolumeAnomalyFlag),
			strconv.Itoa(rec.NegAmountEvents),
			formatFloat(rec.Scores.Completeness),
			formatFloat(rec.Scores.Schema),
			formatFloat(rec.Scores.Uniqueness),
			formatFloat(rec.Scores.Volume),
			formatFloat(rec.Scores.Validity),
			formatFloat(rec.TrustScore),
			rec.Reason,
		})
	}

	return s.writeFile(s.QualityPath(), rows)
}

// LoadQuality reads a previously written daily quality table
func (s *Store) LoadQuality() ([]contracts.DailyQualityRecord, error) {
	rows, err := s.readFile(s.QualityPath())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []contracts.DailyQualityRecord{}, nil
	}

	cols, err := columnIndex(rows[0], []string{
		"date",
		"purchase_events", "session_events", "duplicate_events",
		"schema_drift_flag", "volume_anomaly_flag", "neg_amount_events",
		"score_completeness", "score_schema", "score_uniqueness", "score_volume", "score_validity",
		"trust_score", "reason",
	})
	if err != nil {
		return nil, err
	}

	records := make([]contracts.DailyQualityRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2

		date, err := time.Parse(dateLayout, row[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: unparseable date %q", contracts.ErrMalformedInput, line, row[cols["date"]])
		}

		rr := &rowReader{row: row, cols: cols, line: line}
		rec := contracts.DailyQualityRecord{
			Date:              date.UTC(),
			PurchaseEvents:    rr.Int("purchase_events"),
			SessionEvents:     rr.Int("session_events"),
			DuplicateEvents:   rr.Int("duplicate_events"),
			SchemaDriftFlag:   rr.Int("schema_drift_flag"),
			VolumeAnomalyFlag: rr.Int("volume_anomaly_flag"),
			NegAmountEvents:   rr.Int("neg_amount_events"),
			TrustScore:        rr.Float("trust_score"),
			Reason:            row[cols["reason"]],
		}
		rec.Scores = contracts.DimensionScores{
			Completeness: rr.Float("score_completeness"),
			Schema:       rr.Float("score_schema"),
			Uniqueness:   rr.Float("score_uniqueness"),
			Volume:       rr.Float("score_volume"),
			Validity:     rr.Float("score_validity"),
		}
		if rr.err != nil {
			return nil, rr.err
		}

		records = append(records, rec)
	}

	return records, nil
}

// SaveKPIs writes the daily KPI table
func (s *Store) SaveKPIs(kpis []contracts.DailyKPI) error {
	rows := make([][]string, 0, len(kpis)+1)
	rows = append(rows, []string{
		"event_date", "dau", "purchasers", "revenue",
		"conversion_rate", "d1_retention_proxy", "revenue_per_dau",
	})

	for _, k := range kpis {
		rows = append(rows, []string{
			k.Date.UTC().Format(dateLayout),
			strconv.Itoa(k.DAU),
			strconv.Itoa(k.Purchasers),
			formatFloat(k.Revenue),
			formatFloat(k.ConversionRate),
			formatFloat(k.D1RetentionProxy),
			formatFloat(k.RevenuePerDAU),
		})
	}

	return s.writeFile(s.KPIPath(), rows)
}

// LoadKPIs reads a previously written daily KPI table
func (s *Store) LoadKPIs() ([]contracts.DailyKPI, error) {
	rows, err := s.readFile(s.KPIPath())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []contracts.DailyKPI{}, nil
	}

	cols, err := columnIndex(rows[0], []string{
		"event_date", "dau", "purchasers", "revenue",
		"conversion_rate", "d1_retention_proxy", "revenue_per_dau",
	})
	if err != nil {
		return nil, err
	}

	kpis := make([]contracts.DailyKPI, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2

		date, err := time.Parse(dateLayout, row[cols["event_date"]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: unparseable event_date %q", contracts.ErrMalformedInput, line, row[cols["event_date"]])
		}

		rr := &rowReader{row: row, cols: cols, line: line}
		kpi := contracts.DailyKPI{
			Date:             date.UTC(),
			DAU:              rr.Int("dau"),
			Purchasers:       rr.Int("purchasers"),
			Revenue:          rr.Float("revenue"),
			ConversionRate:   rr.Float("conversion_rate"),
			D1RetentionProxy: rr.Float("d1_retention_proxy"),
			RevenuePerDAU:    rr.Float("revenue_per_dau"),
		}
		if rr.err != nil {
			return nil, rr.err
		}

		kpis = append(kpis, kpi)
	}

	return kpis, nil
}

// Helpers

func (s *Store) writeFile(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(rows) - 1,
	}).Info("Wrote table")

	return nil
}

func (s *Store) readFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contracts.ErrMalformedInput, path, err)
	}
	return rows, nil
}

// columnIndex maps required column names to positions, failing fast on
// any missing column
func columnIndex(header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", contracts.ErrMalformedInput, name)
		}
	}
	return cols, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rowReader parses typed fields out of one CSV row, remembering the
// first failure so callers check once per row
type rowReader struct {
	row  []string
	cols map[string]int
	line int
	err  error
}

func (r *rowReader) Int(name string) int {
	if r.err != nil {
		return 0
	}
	raw := r.row[r.cols[name]]
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.err = fmt.Errorf("%w: line %d: bad %s %q", contracts.ErrMalformedInput, r.line, name, raw)
	}
	return v
}

func (r *rowReader) Float(name string) float64 {
	if r.err != nil {
		return 0
	}
	raw := r.row[r.cols[name]]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.err = fmt.Errorf("%w: line %d: bad %s %q", contracts.ErrMalformedInput, r.line, name, raw)
	}
	return v
}
