// TrussCut CLI: analyzes every truss drawing of a data folder and writes
// the fabrication reports without opening a window.
//
// Usage:
//
//	trusscut-cli [flags] [folder or files...]
//
// With no arguments the "data" folder is analyzed. Settings come from
// ~/.trusscut/config.json, then TRUSSCUT_* environment variables (a .env file
// in the working directory is honored), then flags.
//
// Exit status is 0 on success, 1 on error, 3 when no file produced pieces,
// and 130 when interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/piwi3910/TrussCut/internal/batch"
	"github.com/piwi3910/TrussCut/internal/engine"
	"github.com/piwi3910/TrussCut/internal/export"
	"github.com/piwi3910/TrussCut/internal/importer"
	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/piwi3910/TrussCut/internal/project"
)

const (
	exitError     = 1
	exitNoResults = 3
	exitCanceled  = 130

	defaultDataDir = "data"
)

type options struct {
	stock, kerf   float64
	reportsDir    string
	mergeStandard bool
	perFile       bool
	combined      bool
	pdf           bool
	labels        bool
	archive       bool
	logLevel      string
	logJSON       bool
	minRemnant    float64
}

func main() {
	_ = godotenv.Load()

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	must(err)
	cfg = project.ApplyEnvOverrides(cfg)

	opts := options{minRemnant: cfg.MinRemnantLength}
	flag.Float64Var(&opts.stock, "stock", cfg.DefaultStockLength, "stock bar length in mm")
	flag.Float64Var(&opts.kerf, "kerf", cfg.DefaultKerf, "saw kerf in mm")
	flag.StringVar(&opts.reportsDir, "reports", cfg.ReportsDir, "folder for report workbooks")
	flag.BoolVar(&opts.mergeStandard, "merge-standard", cfg.MergeStandardProfile, "count STANDARD pieces under the single explicit profile of their type")
	flag.BoolVar(&opts.perFile, "per-file", cfg.PerFileReports, "write one workbook per drawing")
	flag.BoolVar(&opts.combined, "combined", cfg.CombinedReports, "write one workbook for the whole batch")
	flag.BoolVar(&opts.pdf, "pdf", false, "also write the cutting plan as PDF")
	flag.BoolVar(&opts.labels, "labels", false, "also write piece labels as PDF")
	flag.BoolVar(&opts.archive, "archive", false, "store the extracted pieces in the run archive")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	flag.Parse()

	logger, err := newLogger(opts.logLevel, opts.logJSON)
	must(err)

	files, err := collectInputs(flag.Args())
	must(err)
	if len(files) == 0 {
		logger.Warn("no drawings found", "args", flag.Args())
		os.Exit(exitNoResults)
	}

	cfg.DefaultStockLength = opts.stock
	cfg.DefaultKerf = opts.kerf
	plan := cfg.CuttingPlan()
	must(plan.Validate())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner := &batch.Runner{
		Plan:    plan,
		Options: engine.ReportOptions{MergeStandardProfile: opts.mergeStandard},
		Logger:  logger,
		Extract: importer.ExtractPath,
	}

	started := time.Now()
	res := runner.Run(ctx, files, nil)
	switch {
	case errors.Is(res.Err, context.Canceled):
		logger.Warn("analysis interrupted", "processed", len(res.Files), "total", len(files))
		os.Exit(exitCanceled)
	case errors.Is(res.Err, batch.ErrNoResults):
		logger.Warn("no structural pieces found", "files", len(files), "failed", len(res.Failed()))
		os.Exit(exitNoResults)
	case res.Err != nil:
		must(res.Err)
	}

	printSummary(res.Report)
	must(writeOutputs(res, opts, logger))

	if opts.archive {
		must(archiveRuns(res, logger))
	}

	logger.Info("analysis complete",
		"files", len(res.Files),
		"failed", len(res.Failed()),
		"pieces", len(res.Report.Details),
		"bars", res.Report.TotalBars(),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

func newLogger(level string, asJSON bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nil
}

// collectInputs expands folder arguments to the drawings they hold.
func collectInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{defaultDataDir}
	}
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			found, err := batch.CollectDrawings(arg)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		// Missing files are reported per file by the runner
		files = append(files, arg)
	}
	return files, nil
}

func printSummary(report model.Report) {
	fmt.Printf("%-10s %-24s %8s %14s %6s\n", "TYPE", "PROFILE", "PIECES", "LENGTH (mm)", "BARS")
	for _, s := range report.Summaries {
		fmt.Printf("%-10s %-24s %8d %14.1f %6d\n",
			s.Group.Type, s.Group.Profile, s.PieceCount, s.TotalLength, s.BarsRequired)
	}
	fmt.Printf("%-35s %8d %14.1f %6d\n", "TOTAL", len(report.Details), report.TotalLength(), report.TotalBars())
}

func writeOutputs(res batch.Result, opts options, logger *slog.Logger) error {
	if opts.reportsDir == "" {
		return nil
	}
	now := time.Now()
	names := export.NewReportNamer(now)

	if opts.perFile {
		for _, fr := range res.PerFileReports() {
			if fr.Err != nil {
				logger.Warn("per-file report skipped", "file", fr.Path, "error", fr.Err)
				continue
			}
			path := filepath.Join(opts.reportsDir, names.Name(fr.Path))
			if err := export.WriteReportXLSX(path, fr.Report); err != nil {
				return err
			}
			logger.Info("report written", "path", path)
		}
	}

	if opts.combined {
		path := filepath.Join(opts.reportsDir, names.Name("combined"))
		if err := export.WriteReportXLSX(path, res.Report); err != nil {
			return err
		}
		logger.Info("report written", "path", path)
	}

	stamp := now.Format("20060102_150405")
	if opts.pdf {
		path := filepath.Join(opts.reportsDir, "CuttingPlan_"+stamp+".pdf")
		if err := export.ExportCuttingPlanPDF(path, res.Report, opts.minRemnant); err != nil {
			return err
		}
		logger.Info("cutting plan written", "path", path)
	}
	if opts.labels {
		path := filepath.Join(opts.reportsDir, "Labels_"+stamp+".pdf")
		if err := export.ExportLabels(path, res.Report); err != nil {
			return err
		}
		logger.Info("labels written", "path", path)
	}
	return nil
}

func archiveRuns(res batch.Result, logger *slog.Logger) error {
	archive, err := project.OpenArchive(project.DefaultArchivePath())
	if err != nil {
		return err
	}
	defer archive.Close()

	var ids []string
	for _, f := range res.Succeeded() {
		id, err := archive.SaveRun(filepath.Base(f.Path), f.Members)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	logger.Info("runs archived", "ids", strings.Join(ids, ","))
	return nil
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(exitError)
}
