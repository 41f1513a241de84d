package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the report workbook.
const (
	DetailSheet  = "Piece Detail"
	SummarySheet = "Profile Summary"
)

var (
	detailHeaders  = []string{"Index", "Piece", "Length (mm)", "Type", "Profile", "Source"}
	summaryHeaders = []string{"Type", "Profile", "Pieces", "Total Length (mm)", "Bars Required"}
)

// ReportFileName returns the workbook name for a drawing or batch, e.g.
// "Report_truss_20240131_154500.xlsx". A file extension on base is dropped.
func ReportFileName(base string, t time.Time) string {
	base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	return fmt.Sprintf("Report_%s_%s.xlsx", base, t.Format("20060102_150405"))
}

// ReportNamer hands out workbook names that are unique within one batch.
// Drawings with the same base name from different folders get a numeric
// suffix ("Report_truss_20240131_154500_2.xlsx") instead of overwriting
// each other. Names are compared case-insensitively.
type ReportNamer struct {
	at   time.Time
	used map[string]bool
}

// NewReportNamer returns a namer stamping every name with t.
func NewReportNamer(t time.Time) *ReportNamer {
	return &ReportNamer{at: t, used: make(map[string]bool)}
}

// Name returns the workbook name for base, never repeating an earlier name.
func (n *ReportNamer) Name(base string) string {
	name := ReportFileName(base, n.at)
	stem := strings.TrimSuffix(name, ".xlsx")
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s_%d.xlsx", stem, i)
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// WriteReportXLSX writes the piece roster and the per-profile summary of a
// report to a two-sheet workbook, creating the parent directory if needed.
func WriteReportXLSX(path string, report model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DetailSheet); err != nil {
		return fmt.Errorf("rename detail sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeHeader(f, DetailSheet, detailHeaders, bold); err != nil {
		return err
	}
	for i, d := range report.Details {
		if err := writeRow(f, DetailSheet, i+2, d.SequenceIndex, d.PieceID, d.Length, string(d.Type), d.Profile, d.Source); err != nil {
			return err
		}
	}

	if err := writeHeader(f, SummarySheet, summaryHeaders, bold); err != nil {
		return err
	}
	row := 2
	for _, s := range report.Summaries {
		if err := writeRow(f, SummarySheet, row, string(s.Group.Type), s.Group.Profile, s.PieceCount, s.TotalLength, s.BarsRequired); err != nil {
			return err
		}
		row++
	}

	note := fmt.Sprintf("Stock length %.0f mm, kerf %.1f mm", report.Plan.StockLength, report.Plan.Kerf)
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, cell, note); err != nil {
		return fmt.Errorf("write plan note: %w", err)
	}

	for _, w := range []struct {
		sheet, from, to string
		width           float64
	}{
		{DetailSheet, "B", "B", 28},
		{DetailSheet, "F", "F", 24},
		{SummarySheet, "A", "E", 18},
	} {
		if err := f.SetColWidth(w.sheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("set %s column width: %w", w.sheet, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report folder: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
