package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TrussCut/internal/model"
)

// Piece colors: cycle through these for visual distinction.
var pieceColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
	{R: 255, G: 235, B: 59, A: 200}, // yellow
	{R: 121, G: 85, B: 72, A: 200},  // brown
}

const barStripHeight = 22

// BarCanvas renders one stock bar as a horizontal strip of cuts.
type BarCanvas struct {
	widget.BaseWidget
	bar        model.Bar
	minRemnant float64
	width      float32
}

func NewBarCanvas(bar model.Bar, minRemnant float64, width float32) *BarCanvas {
	bc := &BarCanvas{
		bar:        bar,
		minRemnant: minRemnant,
		width:      width,
	}
	bc.ExtendBaseWidget(bc)
	return bc
}

func (bc *BarCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newBarCanvasRenderer(bc)
}

type barCanvasRenderer struct {
	bc      *BarCanvas
	objects []fyne.CanvasObject
}

func newBarCanvasRenderer(bc *BarCanvas) *barCanvasRenderer {
	r := &barCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (r *barCanvasRenderer) rebuild() {
	r.objects = nil

	bar := r.bc.bar
	if bar.StockLength <= 0 {
		return
	}
	scale := r.bc.width / float32(bar.StockLength)

	// Raw stock
	bg := canvas.NewRectangle(color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	bg.Resize(fyne.NewSize(r.bc.width, barStripHeight))
	r.objects = append(r.objects, bg)

	var x float32
	for i, c := range bar.Cuts {
		if i > 0 && bar.Kerf > 0 {
			kw := float32(bar.Kerf) * scale
			kerf := canvas.NewRectangle(color.NRGBA{R: 40, G: 40, B: 40, A: 255})
			kerf.Resize(fyne.NewSize(kw, barStripHeight))
			kerf.Move(fyne.NewPos(x, 0))
			r.objects = append(r.objects, kerf)
			x += kw
		}

		w := float32(c.Length) * scale
		piece := canvas.NewRectangle(pieceColors[i%len(pieceColors)])
		piece.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		piece.StrokeWidth = 1
		piece.Resize(fyne.NewSize(w, barStripHeight))
		piece.Move(fyne.NewPos(x, 0))
		r.objects = append(r.objects, piece)

		// Label (only if wide enough)
		if w > 40 {
			label := canvas.NewText(fmt.Sprintf("%.0f", c.Length), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(x+3, 4))
			r.objects = append(r.objects, label)
		}
		x += w
	}

	left := bar.Remaining()
	if len(bar.Cuts) > 0 {
		left -= bar.Kerf
	}
	if left > 0 && left >= r.bc.minRemnant {
		remnant := canvas.NewRectangle(color.NRGBA{R: 255, G: 235, B: 160, A: 255})
		remnant.Resize(fyne.NewSize(float32(left)*scale, barStripHeight))
		remnant.Move(fyne.NewPos(x, 0))
		r.objects = append(r.objects, remnant)
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 1
	border.Resize(fyne.NewSize(r.bc.width, barStripHeight))
	r.objects = append(r.objects, border)
}

func (r *barCanvasRenderer) Layout(size fyne.Size)        {}
func (r *barCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *barCanvasRenderer) Destroy()                     {}
func (r *barCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *barCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.bc.width, barStripHeight)
}

// RenderCutPlans creates a scrollable container with one section per group,
// listing every bar of the group as a strip.
func RenderCutPlans(report *model.Report, minRemnant float64) fyne.CanvasObject {
	if report == nil || len(report.CutPlans) == 0 {
		return widget.NewLabel("No results yet. Select drawings, then click Analyze.")
	}

	var items []fyne.CanvasObject

	for _, gp := range report.CutPlans {
		row, _ := report.Summary(gp.Group)
		header := widget.NewLabel(fmt.Sprintf(
			"%s: %d pieces, %.0f mm, %d bar(s), %.1f%% efficiency",
			gp.Group, row.PieceCount, row.TotalLength, row.BarsRequired,
			row.Efficiency(report.Plan.StockLength),
		))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header)

		for i, bar := range gp.Bars {
			label := widget.NewLabel(fmt.Sprintf("#%d", i+1))
			items = append(items, container.NewBorder(nil, nil, label, nil, NewBarCanvas(bar, minRemnant, 640)))
		}
		items = append(items, widget.NewSeparator())
	}

	remnants := model.DetectRemnants(report.CutPlans, minRemnant)
	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d bars of %.0f mm, %d reusable remnant(s) totalling %.0f mm",
		report.TotalBars(), report.Plan.StockLength, len(remnants), model.TotalRemnantLength(remnants),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}
