package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Output locations
	Paths PathsConfig

	// Synthetic event generation
	Generator GeneratorConfig

	// Quality engine
	Quality QualityConfig

	// Scheduler
	ScheduleSpec string

	// Logging
	LogLevel  string
	LogFormat string
}

// PathsConfig holds output directory locations
type PathsConfig struct {
	DataDir   string
	ReportDir string
}

// GeneratorConfig holds synthetic event generator knobs
type GeneratorConfig struct {
	Seed      int64
	StartDate string // YYYY-MM-DD, interpreted as UTC
	Days      int
	Users     int

	// Injected defect days (offsets from StartDate, negative disables)
	OutageDays       []int
	SchemaDriftDay   int
	BotSpikeDay      int
	TimezoneShiftDay int
	DuplicateDay     int
}

// QualityConfig holds quality engine thresholds and policies
type QualityConfig struct {
	BaselineWindow        int     // trailing days for rolling medians
	CompletenessThreshold float64 // reason-tag cutoff
	VolumeZThreshold      float64
	DriftScore            float64 // schema score on drifted days
	AnomalyScore          float64 // volume score on anomalous days
	VolumePolicy          string  // include | exclude (zero-session days in the anomaly population)
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8087"),
		Env:  getEnv("ENV", "development"),

		Paths: PathsConfig{
			DataDir:   getEnv("DATA_DIR", "data"),
			ReportDir: getEnv("REPORT_DIR", filepath.Join("outputs", "reports")),
		},

		Generator: GeneratorConfig{
			Seed:             int64(getEnvAsInt("GEN_SEED", 7)),
			StartDate:        getEnv("GEN_START_DATE", "2025-11-01"),
			Days:             getEnvAsInt("GEN_DAYS", 35),
			Users:            getEnvAsInt("GEN_USERS", 12000),
			OutageDays:       []int{getEnvAsInt("GEN_OUTAGE_DAY_1", 14), getEnvAsInt("GEN_OUTAGE_DAY_2", 15)},
			SchemaDriftDay:   getEnvAsInt("GEN_SCHEMA_DRIFT_DAY", 18),
			BotSpikeDay:      getEnvAsInt("GEN_BOT_SPIKE_DAY", 22),
			TimezoneShiftDay: getEnvAsInt("GEN_TZ_SHIFT_DAY", 27),
			DuplicateDay:     getEnvAsInt("GEN_DUPLICATE_DAY", 9),
		},

		Quality: QualityConfig{
			BaselineWindow:        getEnvAsInt("QUALITY_BASELINE_WINDOW", 7),
			CompletenessThreshold: getEnvAsFloat("QUALITY_COMPLETENESS_THRESHOLD", 0.70),
			VolumeZThreshold:      getEnvAsFloat("QUALITY_VOLUME_Z_THRESHOLD", 2.8),
			DriftScore:            getEnvAsFloat("QUALITY_DRIFT_SCORE", 0.60),
			AnomalyScore:          getEnvAsFloat("QUALITY_ANOMALY_SCORE", 0.55),
			VolumePolicy:          getEnv("QUALITY_VOLUME_POLICY", "include"),
		},

		ScheduleSpec: getEnv("SCHEDULE_SPEC", "@daily"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Generator.Days <= 0 {
		return fmt.Errorf("GEN_DAYS must be positive")
	}
	if c.Generator.Users <= 0 {
		return fmt.Errorf("GEN_USERS must be positive")
	}

	if c.Quality.BaselineWindow < 1 {
		return fmt.Errorf("QUALITY_BASELINE_WINDOW must be at least 1")
	}
	if c.Quality.VolumePolicy != "include" && c.Quality.VolumePolicy != "exclude" {
		return fmt.Errorf("QUALITY_VOLUME_POLICY must be one of: include, exclude")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
