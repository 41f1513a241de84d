package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/TrussCut/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestReport(t)); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportLabels(path, model.Report{}); err == nil {
		t.Fatal("expected error for empty report, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestReport(t))

	if len(labels) != 6 {
		t.Fatalf("expected 6 labels, got %d", len(labels))
	}

	first := labels[0]
	if first.PieceID != "BANZO_U100X50X3_1" || first.Length != 4200 || first.Source != "truss_a.dxf" {
		t.Errorf("unexpected first label %+v", first)
	}

	// 4200 + 4 + 1500 fits one bar; the second 4200 opens a new one
	tests := []struct {
		index    int
		bar      int
		position int
	}{
		{0, 1, 1},
		{1, 2, 1},
		{2, 1, 2},
	}
	for _, tt := range tests {
		got := labels[tt.index]
		if got.Bar != tt.bar || got.Position != tt.position {
			t.Errorf("label %d (%s): got bar %d cut %d, want bar %d cut %d",
				tt.index, got.PieceID, got.Bar, got.Position, tt.bar, tt.position)
		}
	}

	last := labels[5]
	if last.Type != "MONTANTE" || last.Profile != model.StandardProfile {
		t.Errorf("unexpected last label %+v", last)
	}
}

func TestCollectLabelInfos_WithoutCutPlans(t *testing.T) {
	report := model.Report{
		Details: []model.DetailRow{
			{SequenceIndex: 1, PieceID: "DIAGONAL_L50_1", Length: 900, Type: model.Diagonal, Profile: "L50"},
		},
	}

	labels := CollectLabelInfos(report)
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if labels[0].Bar != 0 || labels[0].Position != 0 {
		t.Errorf("expected unknown bar position, got %+v", labels[0])
	}
}

func TestLabelInfo_QRPayload(t *testing.T) {
	info := LabelInfo{PieceID: "BANZO_U50_3", Type: "BANZO", Profile: "U50", Length: 1234.5, Source: "a.dxf", Bar: 2, Position: 1}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if payload["piece"] != "BANZO_U50_3" || payload["length_mm"] != 1234.5 {
		t.Errorf("unexpected payload %s", data)
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many_labels.pdf")

	report := model.Report{}
	for i := 1; i <= labelsPerPage+5; i++ {
		report.Details = append(report.Details, model.DetailRow{
			SequenceIndex: i,
			PieceID:       fmt.Sprintf("DIAGONAL_L50X50X3_%d", i),
			Length:        float64(500 + i*10),
			Type:          model.Diagonal,
			Profile:       "L50X50X3",
			Source:        "a_rather_long_drawing_file_name_for_truncation.dxf",
		})
	}

	if err := ExportLabels(path, report); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
}

func TestTruncate(t *testing.T) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 6)
	short := "U50"
	if got := truncate(pdf, short, 40); got != short {
		t.Errorf("truncate(%q) = %q, want unchanged", short, got)
	}

	long := "a_rather_long_drawing_file_name_for_truncation.dxf"
	got := truncate(pdf, long, 20)
	if got == long || pdf.GetStringWidth(got) > 20 {
		t.Errorf("truncate(%q) = %q does not fit", long, got)
	}
}
