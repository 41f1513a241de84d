package importer

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

// writeDrawing saves a generated drawing to a temp file and returns its path.
func writeDrawing(t *testing.T, name string, build func(d *drawing.Drawing)) string {
	t.Helper()
	d := dxf.NewDrawing()
	build(d)
	path := filepath.Join(t.TempDir(), name)
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save drawing: %v", err)
	}
	return path
}

func mustLayer(t *testing.T, d *drawing.Drawing, name string) {
	t.Helper()
	if _, err := d.AddLayer(name, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		t.Fatalf("AddLayer(%s): %v", name, err)
	}
}

func trussDrawing(t *testing.T) string {
	return writeDrawing(t, "truss.dxf", func(d *drawing.Drawing) {
		mustLayer(t, d, "DIAGONAL_L50X50X3")
		d.Line(0, 0, 0, 300, 400, 0)

		mustLayer(t, d, "MONTANTE")
		d.Line(1000, 0, 0, 1000, 750, 0)

		mustLayer(t, d, "TEXT_LAYER")
		d.Line(0, 0, 0, 5000, 0, 0)

		mustLayer(t, d, "banzo_u100x50x3")
		d.LwPolyline(false, []float64{0, 0}, []float64{2000, 0}, []float64{2000, 1500})
		d.LwPolyline(true, []float64{0, 0}, []float64{1000, 0}, []float64{1000, 1000}, []float64{0, 1000})
		// Zero-length geometry is dropped
		d.Line(10, 10, 0, 10, 10, 0)

		if err := d.ChangeLayer("DIAGONAL_L50X50X3"); err != nil {
			t.Fatalf("ChangeLayer: %v", err)
		}
		d.Line(0, 0, 0, 0, 1200, 0)
	})
}

func TestExtractFile_ClassifiesAndMeasures(t *testing.T) {
	path := trussDrawing(t)

	members, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}

	want := []model.Member{
		{Type: model.Diagonal, Profile: "L50X50X3", Length: 500, Source: "truss.dxf"},
		{Type: model.Montante, Profile: model.StandardProfile, Length: 750, Source: "truss.dxf"},
		{Type: model.Banzo, Profile: "U100X50X3", Length: 3500, Source: "truss.dxf"},
		{Type: model.Banzo, Profile: "U100X50X3", Length: 4000, Source: "truss.dxf"},
		{Type: model.Diagonal, Profile: "L50X50X3", Length: 1200, Source: "truss.dxf"},
	}
	if len(members) != len(want) {
		t.Fatalf("expected %d members, got %d: %+v", len(want), len(members), members)
	}
	for i := range want {
		got := members[i]
		if got.Type != want[i].Type || got.Profile != want[i].Profile || got.Source != want[i].Source {
			t.Errorf("member %d: expected %+v, got %+v", i, want[i], got)
		}
		if math.Abs(got.Length-want[i].Length) > 1e-6 {
			t.Errorf("member %d: expected length %f, got %f", i, want[i].Length, got.Length)
		}
	}
}

func TestExtractFile_Deterministic(t *testing.T) {
	path := trussDrawing(t)

	first, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	second, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction is not repeatable:\n%+v\n%+v", first, second)
	}
}

func TestExtractFile_NoStructuralLayers(t *testing.T) {
	path := writeDrawing(t, "notes.dxf", func(d *drawing.Drawing) {
		mustLayer(t, d, "ANNOTATIONS")
		d.Line(0, 0, 0, 100, 0, 0)
	})

	members, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected no members, got %+v", members)
	}
}

func TestOpenDXF_NotFound(t *testing.T) {
	_, err := OpenDXF(filepath.Join(t.TempDir(), "missing.dxf"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrMalformed) || errors.Is(err, ErrUnreadable) {
		t.Error("a missing file must match exactly one failure kind")
	}

	var fe *FileError
	if !errors.As(err, &fe) || fe.Kind != NotFound {
		t.Errorf("expected *FileError with NotFound kind, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected the underlying os error to be preserved")
	}
}

func TestOpenDXF_Directory(t *testing.T) {
	_, err := OpenDXF(t.TempDir())
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestOpenDXF_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dxf")
	if err := os.WriteFile(path, []byte("this is not\na dxf file\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := ExtractFile(path)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestExtractMembers_Filtering(t *testing.T) {
	entities := []model.Entity{
		{Geometry: model.Segment(model.Point2D{}, model.Point2D{X: 100})},
		{Layer: "BANZO_U50", HasLayer: true, Geometry: model.Geometry{Kind: model.GeometryOther}},
		{Layer: "BANZO_U50", HasLayer: true, Geometry: model.Polyline(false, model.Point2D{X: 5})},
		{Layer: "DIMENSIONS", HasLayer: true, Geometry: model.Segment(model.Point2D{}, model.Point2D{X: 100})},
		{Layer: "BANZO_U50", HasLayer: true, Geometry: model.Segment(model.Point2D{}, model.Point2D{Y: 250})},
	}

	members := ExtractMembers(entities, "manual")
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %+v", members)
	}
	m := members[0]
	if m.Type != model.Banzo || m.Profile != "U50" || m.Length != 250 || m.Source != "manual" {
		t.Errorf("unexpected member %+v", m)
	}
}

func TestFailureKindString(t *testing.T) {
	if NotFound.String() != "not found" || Unreadable.String() != "unreadable" || Malformed.String() != "malformed" {
		t.Error("unexpected failure kind names")
	}
}
