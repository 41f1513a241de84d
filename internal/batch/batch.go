// Package batch runs the extraction pipeline over many drawings and aggregates
// the successful ones into a single report.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/TrussCut/internal/engine"
	"github.com/piwi3910/TrussCut/internal/importer"
	"github.com/piwi3910/TrussCut/internal/model"
)

// ErrNoResults is returned when no file in a batch produced any member.
var ErrNoResults = errors.New("no results: no file produced structural members")

// progressBuffer is the capacity of the channel returned by Start.
const progressBuffer = 16

// ExtractFunc turns one file into members.
type ExtractFunc func(path string) ([]model.Member, error)

// Progress is reported once per file, after the file is fully processed.
type Progress struct {
	Index   int // 1-based position of the file in the batch
	Total   int
	Path    string
	Members int
	Err     error
}

// FileResult is the outcome of one file.
type FileResult struct {
	Path    string
	Members []model.Member
	Err     error
}

// Result is the outcome of a batch. Report is set only when Err is nil.
type Result struct {
	Files   []FileResult
	Report  model.Report
	Err     error
	Plan    model.CuttingPlan
	Options engine.ReportOptions
}

// Succeeded returns the files that were extracted without error.
func (r Result) Succeeded() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err == nil {
			out = append(out, f)
		}
	}
	return out
}

// Failed returns the files that could not be extracted.
func (r Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Members returns the members of all successful files, in batch order.
func (r Result) Members() []model.Member {
	runs := make([][]model.Member, 0, len(r.Files))
	for _, f := range r.Succeeded() {
		runs = append(runs, f.Members)
	}
	return engine.CombineMembers(runs...)
}

// FileReport is the report of a single file of a batch.
type FileReport struct {
	Path   string
	Report model.Report
	Err    error
}

// PerFileReports builds one report per successful file that has members.
// The combined view is Result.Report; these are never summed into it.
func (r Result) PerFileReports() []FileReport {
	var out []FileReport
	for _, f := range r.Succeeded() {
		if len(f.Members) == 0 {
			continue
		}
		report, err := engine.BuildReport(f.Members, r.Plan, r.Options)
		out = append(out, FileReport{Path: f.Path, Report: report, Err: err})
	}
	return out
}

// Runner processes files one at a time with a shared cutting plan.
type Runner struct {
	Plan    model.CuttingPlan
	Options engine.ReportOptions
	Logger  *slog.Logger
	Extract ExtractFunc // Defaults to importer.ExtractFile
}

// NewRunner returns a runner that reads DXF drawings.
func NewRunner(plan model.CuttingPlan, opts engine.ReportOptions, logger *slog.Logger) *Runner {
	return &Runner{Plan: plan, Options: opts, Logger: logger, Extract: importer.ExtractFile}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) extract() ExtractFunc {
	if r.Extract != nil {
		return r.Extract
	}
	return importer.ExtractFile
}

// Run extracts every path in order, then aggregates the successful files.
// A failing file is recorded and skipped. ctx is checked between files only;
// a file that has started always finishes. When ctx is canceled, Result.Err is
// the context error and no report is built. progress may be nil.
func (r *Runner) Run(ctx context.Context, paths []string, progress chan<- Progress) Result {
	log := r.logger()
	extract := r.extract()
	res := Result{Plan: r.Plan, Options: r.Options}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			log.Info("batch canceled", "processed", i, "total", len(paths))
			res.Err = err
			return res
		}

		members, err := extract(path)
		res.Files = append(res.Files, FileResult{Path: path, Members: members, Err: err})

		if err != nil {
			log.Warn("file skipped", "file", path, "index", i+1, "total", len(paths), "error", err)
		} else {
			log.Info("file processed", "file", path, "members", len(members), "index", i+1, "total", len(paths))
		}

		if progress != nil {
			ev := Progress{Index: i + 1, Total: len(paths), Path: path, Members: len(members), Err: err}
			select {
			case progress <- ev:
			case <-ctx.Done():
			}
		}
	}

	members := res.Members()
	if len(members) == 0 {
		res.Err = ErrNoResults
		log.Warn("batch produced no members", "files", len(paths), "failed", len(res.Failed()))
		return res
	}

	report, err := engine.BuildReport(members, r.Plan, r.Options)
	if err != nil {
		res.Err = fmt.Errorf("aggregate: %w", err)
		return res
	}
	res.Report = report
	log.Info("batch aggregated", "members", len(members), "groups", len(report.Summaries), "bars", report.TotalBars())
	return res
}

// Start runs the batch on a background goroutine. Progress events arrive on
// the first channel, which is closed when the batch ends; the result is then
// delivered on the second. The caller must drain the progress channel.
func (r *Runner) Start(ctx context.Context, paths []string) (<-chan Progress, <-chan Result) {
	progress := make(chan Progress, progressBuffer)
	done := make(chan Result, 1)

	go func() {
		res := r.Run(ctx, paths, progress)
		close(progress)
		done <- res
		close(done)
	}()

	return progress, done
}

// CollectDrawings returns the .dxf files directly inside dir, sorted by name.
func CollectDrawings(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read drawings folder: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".dxf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
