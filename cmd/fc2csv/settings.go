package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"example.com/fc2csv/internal/common"
	"example.com/fc2csv/internal/config"
)

// loadSettings reads the optional configuration file and applies command
// line overrides.
func loadSettings(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	override := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	override("layout", &cfg.Layout)
	override("timezone", &cfg.Timezone)
	override("out-dir", &cfg.OutDir)
	override("rejects", &cfg.Reports.Rejects)
	override("summary", &cfg.Reports.Summary)
	override("pdf", &cfg.Reports.PDF)
	override("manifest", &cfg.Reports.Manifest)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupLogging(c *cli.Context, cfg config.Config, logger *common.Logger) error {
	level := common.LevelFromVerbosity(c.Int("log"))
	if !c.IsSet("log") && cfg.Logs.Level != "" {
		parsed, err := common.ParseLevel(cfg.Logs.Level)
		if err != nil {
			return err
		}
		level = parsed
	}
	logger.SetLevel(level)
	if c.Bool("no-color") {
		logger.SetColor(false)
	}
	sink, ok := cfg.FileSink()
	if !ok {
		return nil
	}
	if err := logger.AttachFile(sink); err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	return nil
}
