package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TrussCut/internal/batch"
	"github.com/piwi3910/TrussCut/internal/engine"
	"github.com/piwi3910/TrussCut/internal/export"
	"github.com/piwi3910/TrussCut/internal/importer"
	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/piwi3910/TrussCut/internal/project"
	"github.com/piwi3910/TrussCut/internal/ui/widgets"
)

const maxRecentFiles = 10

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	logger  *slog.Logger
	archive *project.Archive // nil when the archive could not be opened

	config       model.AppConfig
	configPath   string
	registry     model.ProfileRegistry
	registryPath string
	history      *History[Snapshot]

	files  []string
	result *batch.Result
	cancel context.CancelFunc

	// UI references for dynamic updates
	tabs            *container.AppTabs
	filesList       *widget.List
	analyzeBtn      *widget.Button
	cancelBtn       *widget.Button
	progress        *widget.ProgressBar
	status          *widget.Label
	summaryTable    *widget.Table
	detailTable     *widget.Table
	estimateLabel   *widget.Label
	resultContainer *fyne.Container
	runsContainer   *fyne.Container
}

// NewApp loads the stored configuration and profile registry. Load failures
// fall back to defaults and are logged.
func NewApp(window fyne.Window, logger *slog.Logger, archive *project.Archive) *App {
	a := &App{
		window:       window,
		logger:       logger,
		archive:      archive,
		configPath:   project.DefaultConfigPath(),
		registryPath: project.DefaultRegistryPath(),
		history:      NewHistory(),
	}

	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		logger.Warn("config not loaded, using defaults", "path", a.configPath, "error", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = project.ApplyEnvOverrides(cfg)

	reg, err := project.LoadRegistry(a.registryPath)
	if err != nil {
		logger.Warn("profile registry not loaded", "path", a.registryPath, "error", err)
		reg = model.NewProfileRegistry()
	}
	a.registry = reg
	return a
}

// Theme returns the configured theme name.
func (a *App) Theme() string {
	return a.config.Theme
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Add Drawings...", a.addFiles),
		fyne.NewMenuItem("Add Drawings Folder...", a.addFolder),
		fyne.NewMenuItem("Clear Selection", a.clearFiles),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Report (xlsx)...", a.exportReport),
		fyne.NewMenuItem("Export Cutting Plan (PDF)...", a.exportCuttingPlan),
		fyne.NewMenuItem("Export Piece Labels (PDF)...", a.exportLabels),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup Settings...", a.backupData),
		fyne.NewMenuItem("Restore Settings...", a.restoreData),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Analyze", a.runAnalyze),
		fyne.NewMenuItem("Compare Stock Scenarios", a.showScenarioComparison),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Profile Manager", a.showProfileManager),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About TrussCut",
		"TrussCut - Truss Cutting Planner\n\n"+
			"Reads layered DXF truss drawings, lists every\n"+
			"diagonal, post, and chord by profile, and plans\n"+
			"how many stock bars to cut them from.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Drawings", a.buildFilesPanel()),
		container.NewTabItem("Settings", a.buildSettingsPanel()),
		container.NewTabItem("Summary", a.buildSummaryPanel()),
		container.NewTabItem("Pieces", a.buildDetailPanel()),
		container.NewTabItem("Cutting Plan", a.buildCutPlanPanel()),
		container.NewTabItem("Archive", a.buildArchivePanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)
	return a.tabs
}

// ─── Drawings Panel ─────────────────────────────────────────

func (a *App) buildFilesPanel() fyne.CanvasObject {
	a.filesList = widget.NewList(
		func() int { return len(a.files) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, nil,
				widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
				widget.NewLabel("drawing.dxf"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			box.Objects[0].(*widget.Label).SetText(a.files[id])
			box.Objects[1].(*widget.Button).OnTapped = func() {
				a.removeFile(id)
			}
		},
	)

	a.analyzeBtn = widget.NewButtonWithIcon("Analyze", theme.MediaPlayIcon(), a.runAnalyze)
	a.analyzeBtn.Importance = widget.HighImportance
	a.cancelBtn = widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), a.cancelAnalyze)
	a.cancelBtn.Disable()
	a.progress = widget.NewProgressBar()
	a.status = widget.NewLabel("Select drawings to analyze.")
	a.status.Wrapping = fyne.TextWrapWord

	toolbar := container.NewHBox(
		widget.NewLabelWithStyle("Drawings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.FileIcon(), "Add drawings or cut lists", a.addFiles),
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Add every drawing in a folder", a.addFolder),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo),
		newIconButtonWithTooltip(theme.ContentClearIcon(), "Clear selection", a.clearFiles),
	)

	bottom := container.NewVBox(
		a.progress,
		a.status,
		container.NewHBox(layout.NewSpacer(), a.cancelBtn, a.analyzeBtn),
	)

	return container.NewBorder(toolbar, bottom, nil, nil, a.filesList)
}

func (a *App) snapshot(label string) Snapshot {
	return MakeSnapshot(a.files, a.registry, label)
}

func (a *App) restore(s Snapshot) {
	a.files = copyFiles(s.Files)
	if s.Registry != nil {
		a.registry = s.Registry.Clone()
		a.persistRegistry()
	}
	a.filesList.Refresh()
}

func (a *App) undo() {
	if s, ok := a.history.Undo(a.snapshot("current")); ok {
		a.restore(s)
	}
}

func (a *App) redo() {
	if s, ok := a.history.Redo(a.snapshot("current")); ok {
		a.restore(s)
	}
}

func (a *App) appendFiles(paths []string, label string) {
	var added []string
	for _, p := range paths {
		if !containsPath(a.files, p) && !containsPath(added, p) {
			added = append(added, p)
		}
	}
	if len(added) == 0 {
		return
	}
	a.history.Push(a.snapshot(label))
	a.files = append(a.files, added...)
	for _, p := range added {
		a.config.AddRecentFile(p, maxRecentFiles)
	}
	a.saveConfig()
	a.filesList.Refresh()
}

func containsPath(paths []string, p string) bool {
	for _, q := range paths {
		if q == p {
			return true
		}
	}
	return false
}

func (a *App) removeFile(idx int) {
	if idx < 0 || idx >= len(a.files) {
		return
	}
	a.history.Push(a.snapshot("Remove Drawing"))
	a.files = append(a.files[:idx:idx], a.files[idx+1:]...)
	a.filesList.Refresh()
}

func (a *App) clearFiles() {
	if len(a.files) == 0 {
		return
	}
	a.history.Push(a.snapshot("Clear Selection"))
	a.files = nil
	a.filesList.Refresh()
}

func (a *App) addFiles() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.appendFiles([]string{reader.URI().Path()}, "Add Drawing")
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".dxf", ".DXF", ".csv", ".xlsx"}))
	d.Show()
}

func (a *App) addFolder() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		paths, err := batch.CollectDrawings(dir.Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if len(paths) == 0 {
			dialog.ShowInformation("No Drawings", "The folder contains no .dxf files.", a.window)
			return
		}
		a.appendFiles(paths, "Add Folder")
	}, a.window)
}

// ─── Settings Panel ─────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	cfg := &a.config

	// Helper to create a bound float entry; comma decimals are accepted
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%g", *val))
		e.OnChanged = func(text string) {
			if v, err := model.ParseMeasure(text); err == nil {
				*val = v
				a.saveConfig()
			}
		}
		return e
	}

	mergeCheck := widget.NewCheck("", func(b bool) {
		cfg.MergeStandardProfile = b
		a.saveConfig()
	})
	mergeCheck.Checked = cfg.MergeStandardProfile

	perFileCheck := widget.NewCheck("", func(b bool) {
		cfg.PerFileReports = b
		a.saveConfig()
	})
	perFileCheck.Checked = cfg.PerFileReports

	combinedCheck := widget.NewCheck("", func(b bool) {
		cfg.CombinedReports = b
		a.saveConfig()
	})
	combinedCheck.Checked = cfg.CombinedReports

	reportsEntry := widget.NewEntry()
	reportsEntry.SetText(cfg.ReportsDir)
	reportsEntry.OnChanged = func(text string) {
		cfg.ReportsDir = strings.TrimSpace(text)
		a.saveConfig()
	}

	cuttingSection := widget.NewCard("Cutting", "", container.NewGridWithColumns(2,
		widget.NewLabel("Stock Bar Length (mm)"), floatEntry(&cfg.DefaultStockLength),
		widget.NewLabel("Saw Kerf (mm)"), floatEntry(&cfg.DefaultKerf),
		widget.NewLabel("Merge STANDARD into Single Profile"), mergeCheck,
		widget.NewLabel("Minimum Reusable Remnant (mm)"), floatEntry(&cfg.MinRemnantLength),
	))

	purchaseSection := widget.NewCard("Purchasing", "", container.NewGridWithColumns(2,
		widget.NewLabel("Waste Allowance (%)"), floatEntry(&cfg.WastePercent),
		widget.NewLabel("Price per Bar"), floatEntry(&cfg.PricePerBar),
	))

	outputSection := widget.NewCard("Reports", "", container.NewGridWithColumns(2,
		widget.NewLabel("Reports Folder"), reportsEntry,
		widget.NewLabel("Workbook per Drawing"), perFileCheck,
		widget.NewLabel("Combined Workbook"), combinedCheck,
	))

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
		a.saveConfig()
		ApplyTheme(fyne.CurrentApp(), selected)
	})
	themeSelect.SetSelected(cfg.Theme)

	appearanceSection := widget.NewCard("Appearance", "", container.NewGridWithColumns(2,
		widget.NewLabel("Theme"), themeSelect,
	))

	return container.NewVScroll(container.NewVBox(
		cuttingSection,
		purchaseSection,
		outputSection,
		appearanceSection,
	))
}

func (a *App) saveConfig() {
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.logger.Warn("config not saved", "path", a.configPath, "error", err)
	}
}

func (a *App) reportOptions() engine.ReportOptions {
	return engine.ReportOptions{MergeStandardProfile: a.config.MergeStandardProfile}
}

// ─── Results Panels ─────────────────────────────────────────

var summaryColumns = []string{"Type", "Profile", "Pieces", "Total Length (mm)", "Bars Required", "Efficiency"}

func (a *App) buildSummaryPanel() fyne.CanvasObject {
	a.summaryTable = widget.NewTable(
		func() (int, int) {
			return a.summaryRows() + 1, len(summaryColumns)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("MONTANTE_STANDARD")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.SetText(summaryColumns[id.Col])
				return
			}
			label.TextStyle = fyne.TextStyle{}
			s := a.result.Report.Summaries[id.Row-1]
			label.SetText(summaryCell(s, id.Col, a.result.Report.Plan))
		},
	)
	for i, w := range []float32{110, 180, 70, 140, 110, 90} {
		a.summaryTable.SetColumnWidth(i, w)
	}

	a.estimateLabel = widget.NewLabel("")
	a.estimateLabel.Wrapping = fyne.TextWrapWord
	return container.NewBorder(nil, a.estimateLabel, nil, nil, a.summaryTable)
}

func (a *App) summaryRows() int {
	if a.result == nil {
		return 0
	}
	return len(a.result.Report.Summaries)
}

func summaryCell(s model.SummaryRow, col int, plan model.CuttingPlan) string {
	switch col {
	case 0:
		return string(s.Group.Type)
	case 1:
		return s.Group.Profile
	case 2:
		return fmt.Sprintf("%d", s.PieceCount)
	case 3:
		return fmt.Sprintf("%.1f", s.TotalLength)
	case 4:
		return fmt.Sprintf("%d", s.BarsRequired)
	default:
		return fmt.Sprintf("%.1f%%", s.Efficiency(plan.StockLength))
	}
}

var detailColumns = []string{"Index", "Piece", "Length (mm)", "Type", "Profile", "Source"}

func (a *App) buildDetailPanel() fyne.CanvasObject {
	a.detailTable = widget.NewTable(
		func() (int, int) {
			n := 0
			if a.result != nil {
				n = len(a.result.Report.Details)
			}
			return n + 1, len(detailColumns)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("DIAGONAL_L50X50X3_100")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.SetText(detailColumns[id.Col])
				return
			}
			label.TextStyle = fyne.TextStyle{}
			d := a.result.Report.Details[id.Row-1]
			switch id.Col {
			case 0:
				label.SetText(fmt.Sprintf("%d", d.SequenceIndex))
			case 1:
				label.SetText(d.PieceID)
			case 2:
				label.SetText(fmt.Sprintf("%.1f", d.Length))
			case 3:
				label.SetText(string(d.Type))
			case 4:
				label.SetText(d.Profile)
			default:
				label.SetText(d.Source)
			}
		},
	)
	for i, w := range []float32{60, 220, 100, 100, 160, 200} {
		a.detailTable.SetColumnWidth(i, w)
	}
	return a.detailTable
}

func (a *App) buildCutPlanPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack(widgets.RenderCutPlans(nil, 0))
	return a.resultContainer
}

func (a *App) refreshResults() {
	a.summaryTable.Refresh()
	a.detailTable.Refresh()

	a.resultContainer.RemoveAll()
	if a.result != nil {
		a.resultContainer.Add(widgets.RenderCutPlans(&a.result.Report, a.config.MinRemnantLength))

		est := model.CalculatePurchaseEstimate(a.result.Report.Summaries, a.result.Report.Plan,
			a.config.WastePercent, a.config.PricePerBar)
		text := fmt.Sprintf("Bars planned: %d (lower bound %d) | To buy with %.0f%% waste: %d | Utilization: %.1f%%",
			est.BarsPlanned, est.BarsLowerBound, est.WastePercent, est.BarsWithWaste, est.Utilization)
		if est.PricePerBar > 0 {
			text += fmt.Sprintf(" | Estimated cost: %.2f", est.EstimatedCost)
		}
		a.estimateLabel.SetText(text)
	} else {
		a.resultContainer.Add(widgets.RenderCutPlans(nil, 0))
		a.estimateLabel.SetText("")
	}
	a.resultContainer.Refresh()
}

// ─── Analysis ───────────────────────────────────────────────

func (a *App) setRunning(running bool) {
	if running {
		a.analyzeBtn.Disable()
		a.cancelBtn.Enable()
		return
	}
	a.analyzeBtn.Enable()
	a.cancelBtn.Disable()
}

func (a *App) runAnalyze() {
	if a.cancel != nil {
		return
	}
	if len(a.files) == 0 {
		dialog.ShowInformation("Nothing to analyze", "Add at least one drawing first.", a.window)
		return
	}
	plan := a.config.CuttingPlan()
	if err := plan.Validate(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	runner := &batch.Runner{
		Plan:    plan,
		Options: a.reportOptions(),
		Logger:  a.logger,
		Extract: importer.ExtractPath,
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.setRunning(true)
	a.progress.SetValue(0)
	a.status.SetText(fmt.Sprintf("Analyzing %d file(s)...", len(a.files)))

	progress, done := runner.Start(ctx, copyFiles(a.files))
	go func() {
		for ev := range progress {
			fyne.Do(func() {
				a.onProgress(ev)
			})
		}
		res := <-done
		fyne.Do(func() {
			a.onFinished(res)
		})
	}()
}

func (a *App) cancelAnalyze() {
	if a.cancel != nil {
		a.status.SetText("Canceling after the current file...")
		a.cancel()
	}
}

func (a *App) onProgress(ev batch.Progress) {
	a.progress.SetValue(float64(ev.Index) / float64(ev.Total))
	name := filepath.Base(ev.Path)
	if ev.Err != nil {
		a.status.SetText(fmt.Sprintf("[%d/%d] %s skipped: %v", ev.Index, ev.Total, name, ev.Err))
		return
	}
	a.status.SetText(fmt.Sprintf("[%d/%d] %s: %d piece(s)", ev.Index, ev.Total, name, ev.Members))
}

func (a *App) onFinished(res batch.Result) {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.setRunning(false)

	switch {
	case errors.Is(res.Err, context.Canceled):
		a.status.SetText(fmt.Sprintf("Canceled after %d file(s).", len(res.Files)))
		return
	case errors.Is(res.Err, batch.ErrNoResults):
		a.status.SetText("No structural pieces found.")
		dialog.ShowInformation("No Results", noResultsMessage(res), a.window)
		return
	case res.Err != nil:
		a.status.SetText("Analysis failed.")
		dialog.ShowError(res.Err, a.window)
		return
	}

	a.result = &res
	a.refreshResults()
	a.archiveRuns(res)

	msg := fmt.Sprintf("%d piece(s) in %d group(s), %d bar(s) of %.0f mm.",
		len(res.Report.Details), len(res.Report.Summaries), res.Report.TotalBars(), res.Report.Plan.StockLength)
	if failed := res.Failed(); len(failed) > 0 {
		msg += fmt.Sprintf(" %d file(s) skipped.", len(failed))
	}
	if missing := a.registry.Unregistered(res.Report.Summaries); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, k := range missing {
			names[i] = k.String()
		}
		msg += " Unregistered profiles: " + strings.Join(names, ", ") + "."
	}

	written, err := a.writeReports(res)
	if err != nil {
		dialog.ShowError(err, a.window)
	} else if len(written) > 0 {
		msg += fmt.Sprintf(" %d report(s) written to %s.", len(written), a.config.ReportsDir)
	}
	a.status.SetText(msg)
	a.tabs.SelectIndex(2)
}

func noResultsMessage(res batch.Result) string {
	failed := res.Failed()
	if len(failed) == 0 {
		return "None of the selected drawings contains pieces on DIAGONAL, MONTANTE, or BANZO layers."
	}
	lines := []string{"No file produced structural pieces. Skipped files:"}
	for _, f := range failed {
		lines = append(lines, fmt.Sprintf("  %s: %v", filepath.Base(f.Path), f.Err))
	}
	return strings.Join(lines, "\n")
}

// writeReports saves the per-file and combined workbooks enabled in the settings.
func (a *App) writeReports(res batch.Result) ([]string, error) {
	dir := a.config.ReportsDir
	if dir == "" {
		return nil, nil
	}
	names := export.NewReportNamer(time.Now())
	var written []string

	if a.config.PerFileReports {
		for _, fr := range res.PerFileReports() {
			if fr.Err != nil {
				a.logger.Warn("per-file report skipped", "file", fr.Path, "error", fr.Err)
				continue
			}
			path := filepath.Join(dir, names.Name(fr.Path))
			if err := export.WriteReportXLSX(path, fr.Report); err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	if a.config.CombinedReports {
		path := filepath.Join(dir, names.Name("combined"))
		if err := export.WriteReportXLSX(path, res.Report); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// ─── Exports ────────────────────────────────────────────────

func (a *App) requireReport() bool {
	if a.result == nil {
		dialog.ShowInformation("No results", "Run the analysis first.", a.window)
		return false
	}
	return true
}

func (a *App) saveFile(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportReport() {
	if !a.requireReport() {
		return
	}
	a.saveFile(export.ReportFileName("combined", time.Now()), func(path string) error {
		return export.WriteReportXLSX(path, a.result.Report)
	})
}

func (a *App) exportCuttingPlan() {
	if !a.requireReport() {
		return
	}
	a.saveFile("cutting_plan.pdf", func(path string) error {
		return export.ExportCuttingPlanPDF(path, a.result.Report, a.config.MinRemnantLength)
	})
}

func (a *App) exportLabels() {
	if !a.requireReport() {
		return
	}
	a.saveFile("piece_labels.pdf", func(path string) error {
		return export.ExportLabels(path, a.result.Report)
	})
}

func (a *App) backupData() {
	a.saveFile("trusscut_backup.json", func(path string) error {
		return project.ExportAllData(path, a.config, a.registry)
	})
}

func (a *App) restoreData() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		backup, err := project.ImportAllData(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.history.Push(a.snapshot("Restore Settings"))
		a.config = backup.Config
		a.registry = backup.Profiles
		a.saveConfig()
		a.persistRegistry()
		dialog.ShowInformation("Restore Complete",
			"Settings and profiles were restored. Reopen the Settings tab to see the new values.", a.window)
	}, a.window)
}

// ─── Scenario Comparison ────────────────────────────────────

func (a *App) showScenarioComparison() {
	if !a.requireReport() {
		return
	}
	members := a.result.Members()
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(a.result.Report.Plan), members, a.reportOptions())

	grid := container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Scenario", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Bars", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Stock (m)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Waste", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, r := range results {
		grid.Add(widget.NewLabel(r.Scenario.Name))
		if r.Err != nil {
			grid.Add(widget.NewLabel("not possible"))
			grid.Add(widget.NewLabel("-"))
			grid.Add(widget.NewLabel("-"))
			continue
		}
		grid.Add(widget.NewLabel(fmt.Sprintf("%d", r.BarsUsed)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.1f", r.StockUsed/1000)))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.1f%%", r.WastePercent)))
	}

	d := dialog.NewCustom("Stock Scenarios", "Close", grid, a.window)
	d.Resize(fyne.NewSize(520, 300))
	d.Show()
}

// ─── Archive Panel ──────────────────────────────────────────

func (a *App) buildArchivePanel() fyne.CanvasObject {
	a.runsContainer = container.NewVBox()
	a.refreshRuns()

	return container.NewBorder(
		widget.NewLabel("Stored extraction runs. Combining runs recomputes bars from their pieces."),
		nil, nil, nil,
		container.NewVScroll(a.runsContainer),
	)
}

func (a *App) archiveRuns(res batch.Result) {
	if a.archive == nil {
		return
	}
	for _, f := range res.Succeeded() {
		if len(f.Members) == 0 {
			continue
		}
		if _, err := a.archive.SaveRun(filepath.Base(f.Path), f.Members); err != nil {
			a.logger.Warn("run not archived", "file", f.Path, "error", err)
		}
	}
	a.refreshRuns()
}

func (a *App) refreshRuns() {
	a.runsContainer.RemoveAll()
	if a.archive == nil {
		a.runsContainer.Add(widget.NewLabel("The run archive is not available."))
		return
	}
	runs, err := a.archive.Runs()
	if err != nil {
		a.runsContainer.Add(widget.NewLabel(fmt.Sprintf("Cannot read archive: %v", err)))
		return
	}
	if len(runs) == 0 {
		a.runsContainer.Add(widget.NewLabel("No runs archived yet."))
		return
	}

	selected := make(map[string]bool)
	for _, r := range runs {
		check := widget.NewCheck(fmt.Sprintf("%s  (%d pieces, %s)",
			r.Source, r.Members, r.CreatedAt.Local().Format("2006-01-02 15:04")), func(b bool) {
			selected[r.ID] = b
		})
		a.runsContainer.Add(check)
	}

	combineBtn := widget.NewButtonWithIcon("Combine Selected", theme.ViewRefreshIcon(), func() {
		var ids []string
		for _, r := range runs {
			if selected[r.ID] {
				ids = append(ids, r.ID)
			}
		}
		a.combineRuns(ids)
	})
	a.runsContainer.Add(container.NewHBox(layout.NewSpacer(), combineBtn))
	a.runsContainer.Refresh()
}

func (a *App) combineRuns(ids []string) {
	if len(ids) == 0 {
		dialog.ShowInformation("No Selection", "Select at least one run.", a.window)
		return
	}
	members, err := a.archive.Members(ids...)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	plan := a.config.CuttingPlan()
	report, err := engine.BuildReport(members, plan, a.reportOptions())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.result = &batch.Result{
		Files:   []batch.FileResult{{Path: "archive", Members: members}},
		Report:  report,
		Plan:    plan,
		Options: a.reportOptions(),
	}
	a.refreshResults()
	a.status.SetText(fmt.Sprintf("Combined %d run(s): %d piece(s), %d bar(s).", len(ids), len(members), report.TotalBars()))
	a.tabs.SelectIndex(2)
}
