package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"example.com/fc2csv/internal/common"
	"example.com/fc2csv/internal/config"
	"example.com/fc2csv/internal/flightlog"
	"example.com/fc2csv/internal/manifest"
	"example.com/fc2csv/internal/report"
)

var errConversionFailed = errors.New("conversion failed")

func convertAction(c *cli.Context, logger *common.Logger) error {
	cfg, err := loadSettings(c)
	if err != nil {
		return err
	}
	if err := setupLogging(c, cfg, logger); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, title)

	files := c.Args().Slice()
	if len(files) == 0 {
		return errors.New("no input files given (see --help)")
	}
	table, err := cfg.Table()
	if err != nil {
		logger.Criticalf("Unable to load field table: %v", err)
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	metrics := common.NewMetrics()
	opts := flightlog.Options{
		OutDir:   cfg.OutDir,
		Location: loc,
		Metrics:  metrics,
		Logger:   logger,
	}
	if cfg.Reports.Rejects != "" {
		opts.Rejects = common.NewRejectLog(cfg.Reports.Rejects)
	}
	pipeline, err := flightlog.NewPipeline(table, opts)
	if err != nil {
		return err
	}

	if c.Bool("progress") {
		stopProgress := common.StartProgressPrinter(c.App.ErrWriter, metrics, time.Second)
		defer stopProgress()
	}

	summary := report.NewSummary(table.Name)
	metrics.Start()
	failed := false
	for _, f := range files {
		res, err := pipeline.Process(c.Context, f)
		summary.Add(res, err)
		if err == nil {
			continue
		}
		failed = true
		if flightlog.IsRunFatal(err) {
			logRunFatal(logger, f, err)
			break
		}
		logger.Criticalf("%v. Skipping %s.", err, f)
	}
	metrics.Stop()
	snap := metrics.Snapshot()
	summary.Totals.Bytes = snap.Bytes
	if logger.Enabled(common.LevelDebug) {
		logger.Debugf("Read %s in %s: %d records (%.0f records/s, %s/s).",
			common.FormatBytes(snap.Bytes), snap.Duration.Round(time.Millisecond), snap.Records,
			snap.RecordsPerSecond(), common.FormatBytes(int64(snap.ThroughputBytesPerSecond())))
	}

	if err := writeReports(cfg, files, summary, logger); err != nil {
		return err
	}
	if failed {
		return errConversionFailed
	}
	return nil
}

func logRunFatal(logger *common.Logger, file string, err error) {
	switch {
	case errors.Is(err, flightlog.ErrAtom1Unsupported):
		logger.Errorf("Sorry, I can't handle Atom1 log files yet. Can't parse %s.", file)
	case errors.Is(err, flightlog.ErrUnsupportedFormat):
		logger.Errorf("%s appears to be an unsupported file type.", file)
	case errors.Is(err, os.ErrNotExist):
		logger.Errorf("%s does not exist.", file)
	default:
		logger.Criticalf("%v. Terminating.", err)
	}
}

func writeReports(cfg config.Config, inputs []string, summary *report.Summary, logger *common.Logger) error {
	var written []string
	if path := cfg.Reports.Summary; path != "" {
		if err := report.SaveSummaryJSON(summary, path); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		logger.Infof("Wrote summary %s.", path)
		written = append(written, path)
	}
	if path := cfg.Reports.PDF; path != "" {
		if err := report.SaveSummaryPDF(summary, path); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		logger.Infof("Wrote report %s.", path)
		written = append(written, path)
	}
	path := cfg.Reports.Manifest
	if path == "" {
		return nil
	}
	var items []string
	for _, in := range inputs {
		if _, err := os.Stat(in); err == nil {
			items = append(items, in)
		}
	}
	items = append(items, summary.Outputs()...)
	if rejects := cfg.Reports.Rejects; rejects != "" {
		if _, err := os.Stat(rejects); err == nil {
			items = append(items, rejects)
		}
	}
	items = append(items, written...)
	m, err := manifest.Build(items)
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	if err := manifest.Save(m, path); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	logger.Infof("Wrote manifest %s (%d items).", path, len(m.Items))
	return nil
}
