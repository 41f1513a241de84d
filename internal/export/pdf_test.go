package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/TrussCut/internal/engine"
	"github.com/piwi3910/TrussCut/internal/model"
)

// buildTestReport aggregates a small two-profile truss.
func buildTestReport(t *testing.T) model.Report {
	t.Helper()
	members := []model.Member{
		{Type: model.Banzo, Profile: "U100X50X3", Length: 4200, Source: "truss_a.dxf"},
		{Type: model.Banzo, Profile: "U100X50X3", Length: 4200, Source: "truss_a.dxf"},
		{Type: model.Banzo, Profile: "U100X50X3", Length: 1500, Source: "truss_b.dxf"},
		{Type: model.Diagonal, Profile: "L50X50X3", Length: 1250, Source: "truss_a.dxf"},
		{Type: model.Diagonal, Profile: "L50X50X3", Length: 1250, Source: "truss_b.dxf"},
		{Type: model.Montante, Profile: model.StandardProfile, Length: 800, Source: "truss_b.dxf"},
	}
	report, err := engine.BuildReport(members, model.DefaultCuttingPlan(), engine.ReportOptions{})
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	return report
}

func TestExportCuttingPlanPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := ExportCuttingPlanPDF(path, buildTestReport(t), 500); err != nil {
		t.Fatalf("ExportCuttingPlanPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	// Three group pages plus the summary page
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportCuttingPlanPDF_EmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportCuttingPlanPDF(path, model.Report{Plan: model.DefaultCuttingPlan()}, 500)
	if err == nil {
		t.Fatal("expected error for empty report, got nil")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no file should be written for an empty report")
	}
}

func TestExportCuttingPlanPDF_ManyBars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	// More bars than fit on one page, and more cuts than colors
	members := make([]model.Member, 0, 60)
	for i := 0; i < 60; i++ {
		members = append(members, model.Member{
			Type:    model.Banzo,
			Profile: "U50",
			Length:  float64(2500 + (i%10)*50),
			Source:  fmt.Sprintf("part_%d.dxf", i),
		})
	}
	for i := 0; i < 12; i++ {
		members = append(members, model.Member{Type: model.Diagonal, Profile: "L30", Length: 450, Source: "small.dxf"})
	}
	report, err := engine.BuildReport(members, model.DefaultCuttingPlan(), engine.ReportOptions{})
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.CutPlans[0].Group.Profile != "U50" || len(report.CutPlans[0].Bars) <= barsPerPage() {
		t.Fatalf("fixture should overflow one page, got %d bars", len(report.CutPlans[0].Bars))
	}

	if err := ExportCuttingPlanPDF(path, report, 0); err != nil {
		t.Fatalf("ExportCuttingPlanPDF returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestBarsPerPage(t *testing.T) {
	if n := barsPerPage(); n < 5 || n > 20 {
		t.Errorf("barsPerPage() = %d, expected a sensible count for A4 landscape", n)
	}
}
