package commands

import (
	"fmt"

	"github.com/trustlens/trustlens/internal/pipeline"
	"github.com/trustlens/trustlens/pkg/config"
	"github.com/trustlens/trustlens/pkg/logger"
)

// setup loads config, applies global flag overrides and wires the
// pipeline runner. Every subcommand starts here.
func setup() (*config.Config, *logger.Logger, *pipeline.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	if dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	runner := pipeline.New(cfg, log)

	return cfg, log, runner, nil
}
