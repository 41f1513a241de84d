// Package export writes fabrication reports, cutting plans, and piece labels.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/TrussCut/internal/model"
)

// pieceColor represents an RGB color for a cut piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors mirrors the color scheme used in the UI bar canvas widget.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 8.0
	barLabelW    = 18.0
	barHeight    = 9.0
	barSpacing   = 4.0
)

// ExportCuttingPlanPDF renders one section per profile group, with every stock
// bar drawn as a scaled strip, followed by a summary page. Leftovers of at
// least minRemnant mm are marked as reusable.
func ExportCuttingPlanPDF(path string, report model.Report, minRemnant float64) error {
	if len(report.CutPlans) == 0 {
		return fmt.Errorf("no bars to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, gp := range report.CutPlans {
		renderGroupPages(pdf, gp, report.Plan, minRemnant)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, report, minRemnant)

	return pdf.OutputFileAndClose(path)
}

// barsPerPage is how many bar strips fit below a group header.
func barsPerPage() int {
	usable := pageHeight - drawAreaTop - marginBottom - 10
	return int(usable / (barHeight + barSpacing))
}

// renderGroupPages draws a group's bars, continuing on new pages as needed.
func renderGroupPages(pdf *fpdf.Fpdf, gp model.GroupCutPlan, plan model.CuttingPlan, minRemnant float64) {
	perPage := barsPerPage()
	pieces := 0
	for _, b := range gp.Bars {
		pieces += len(b.Cuts)
	}

	for start := 0; start < len(gp.Bars); start += perPage {
		end := start + perPage
		if end > len(gp.Bars) {
			end = len(gp.Bars)
		}

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(marginLeft, marginTop)
		title := fmt.Sprintf("%s  (%d bars of %.0f mm)", gp.Group, len(gp.Bars), plan.StockLength)
		if start > 0 {
			title += " - continued"
		}
		pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, marginTop+headerHeight)
		stats := fmt.Sprintf("Pieces: %d | Kerf: %.1f mm | Bars %d-%d of %d",
			pieces, plan.Kerf, start+1, end, len(gp.Bars))
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

		y := drawAreaTop
		for i := start; i < end; i++ {
			drawBar(pdf, gp.Bars[i], i+1, y, minRemnant)
			y += barHeight + barSpacing
		}

		drawLegend(pdf, y+2, minRemnant)
	}
}

// drawBar renders one stock bar as a horizontal strip of cuts, kerfs, and leftover.
func drawBar(pdf *fpdf.Fpdf, bar model.Bar, barNum int, y, minRemnant float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y+barHeight/2-2)
	pdf.CellFormat(barLabelW, 4, fmt.Sprintf("#%d", barNum), "", 0, "L", false, 0, "")

	x0 := marginLeft + barLabelW
	drawWidth := pageWidth - x0 - marginRight - 22
	scale := drawWidth / bar.StockLength

	// Raw stock background
	pdf.SetFillColor(200, 200, 200)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x0, y, drawWidth, barHeight, "FD")

	x := x0
	for i, c := range bar.Cuts {
		if i > 0 && bar.Kerf > 0 {
			kw := bar.Kerf * scale
			pdf.SetFillColor(40, 40, 40)
			pdf.Rect(x, y, kw, barHeight, "F")
			x += kw
		}

		col := pieceColors[i%len(pieceColors)]
		w := c.Length * scale
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.Rect(x, y, w, barHeight, "FD")

		label := fmt.Sprintf("%.0f", c.Length)
		if c.PieceID != "" && pdf.GetStringWidth(c.PieceID+" "+label)+2 < w {
			label = c.PieceID + " " + label
		}
		pdf.SetFont("Helvetica", "", 6)
		if lw := pdf.GetStringWidth(label); lw < w-1 {
			pdf.SetXY(x+(w-lw)/2, y+barHeight/2-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
		x += w
	}

	// Reusable leftover
	left := bar.Remaining()
	if len(bar.Cuts) > 0 {
		left -= bar.Kerf
	}
	if left > 0 && left >= minRemnant {
		pdf.SetFillColor(255, 235, 160)
		pdf.Rect(x, y, left*scale, barHeight, "F")
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x0+drawWidth+2, y+barHeight/2-2)
	pdf.CellFormat(20, 4, fmt.Sprintf("%.1f%%", bar.Efficiency()), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawLegend explains the strip colors at the bottom of a group page.
func drawLegend(pdf *fpdf.Fpdf, y, minRemnant float64) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)

	items := []struct {
		r, g, b int
		text    string
	}{
		{40, 40, 40, "Saw kerf"},
		{255, 235, 160, fmt.Sprintf("Reusable remnant (>= %.0f mm)", minRemnant)},
		{200, 200, 200, "Scrap"},
	}

	x := marginLeft
	for _, it := range items {
		pdf.SetFillColor(it.r, it.g, it.b)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		w := pdf.GetStringWidth(it.text) + 2
		pdf.CellFormat(w, 4, it.text, "", 0, "L", false, 0, "")
		x += w + 10
	}
}

// renderSummaryPage draws the final summary page with per-group statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, report model.Report, minRemnant float64) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	remnants := model.DetectRemnants(report.CutPlans, minRemnant)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Stock Length", fmt.Sprintf("%.0f mm", report.Plan.StockLength)},
		{"Kerf", fmt.Sprintf("%.1f mm", report.Plan.Kerf)},
		{"Total Pieces", fmt.Sprintf("%d", len(report.Details))},
		{"Total Bars", fmt.Sprintf("%d", report.TotalBars())},
		{"Reusable Remnants", fmt.Sprintf("%d (%.0f mm)", len(remnants), model.TotalRemnantLength(remnants))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	colWidths := []float64{35, 70, 25, 45, 35, 35}
	headers := []string{"Type", "Profile", "Pieces", "Total Length", "Bars", "Efficiency"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range report.Summaries {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			string(s.Group.Type),
			s.Group.Profile,
			fmt.Sprintf("%d", s.PieceCount),
			fmt.Sprintf("%.1f mm", s.TotalLength),
			fmt.Sprintf("%d", s.BarsRequired),
			fmt.Sprintf("%.1f%%", s.Efficiency(report.Plan.StockLength)),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by TrussCut - Truss Cutting Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
