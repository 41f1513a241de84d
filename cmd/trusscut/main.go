// TrussCut: truss cutting planner.
//
// A desktop application that reads layered DXF truss drawings, lists every
// structural piece by type and profile, and plans the stock bars to cut.
//
// Build:
//   go build -o trusscut ./cmd/trusscut
//
// Cross-compile with fyne-cross:
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/TrussCut/internal/project"
	"github.com/piwi3910/TrussCut/internal/ui"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	archive, err := project.OpenArchive(project.DefaultArchivePath())
	if err != nil {
		logger.Warn("run archive unavailable", "error", err)
		archive = nil
	} else {
		defer archive.Close()
	}

	application := app.NewWithID("com.piwi3910.trusscut")
	window := application.NewWindow("TrussCut - Truss Cutting Planner")

	appUI := ui.NewApp(window, logger, archive)
	ui.ApplyTheme(application, appUI.Theme())
	appUI.SetupMenus()
	window.SetContent(ui.WithToolTips(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1200, 760))
	window.CenterOnScreen()
	window.ShowAndRun()
}
