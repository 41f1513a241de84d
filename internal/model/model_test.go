package model

import (
	"math"
	"testing"
)

func TestSegmentLengthIsEuclideanAndSymmetric(t *testing.T) {
	tests := []struct {
		p0, p1 Point2D
		want   float64
	}{
		{Point2D{0, 0}, Point2D{3, 4}, 5},
		{Point2D{-1000, 0}, Point2D{1000, 0}, 2000},
		{Point2D{10, 10}, Point2D{10, 10}, 0},
		{Point2D{1.5, -2}, Point2D{-2.5, 1}, 5},
	}

	for _, tt := range tests {
		forward := Segment(tt.p0, tt.p1).Length()
		backward := Segment(tt.p1, tt.p0).Length()
		if math.Abs(forward-tt.want) > 1e-9 {
			t.Errorf("length(%v,%v): expected %f, got %f", tt.p0, tt.p1, tt.want, forward)
		}
		if forward != backward {
			t.Errorf("length not symmetric: %f vs %f", forward, backward)
		}
	}
}

func TestPolylineSquareClosedAndOpen(t *testing.T) {
	square := []Point2D{{0, 0}, {1000, 0}, {1000, 1000}, {0, 1000}}

	closed := Polyline(true, square...).Length()
	if math.Abs(closed-4000) > 1e-9 {
		t.Errorf("expected closed square length 4000, got %f", closed)
	}

	open := Polyline(false, square...).Length()
	if math.Abs(open-3000) > 1e-9 {
		t.Errorf("expected open square length 3000, got %f", open)
	}
}

func TestDegenerateGeometryMeasuresZero(t *testing.T) {
	cases := map[string]Geometry{
		"empty polyline":        Polyline(true),
		"single point polyline": Polyline(true, Point2D{5, 5}),
		"segment missing end":   {Kind: GeometrySegment, Points: []Point2D{{1, 1}}},
		"other kind":            {Kind: GeometryOther, Points: []Point2D{{0, 0}, {10, 0}}},
	}
	for name, g := range cases {
		if got := g.Length(); got != 0 {
			t.Errorf("%s: expected 0, got %f", name, got)
		}
	}
}

func TestMeasurable(t *testing.T) {
	if !Segment(Point2D{}, Point2D{X: 1}).Measurable() {
		t.Error("segment should be measurable")
	}
	if !Polyline(false).Measurable() {
		t.Error("polyline should be measurable")
	}
	if (Geometry{Kind: GeometryOther}).Measurable() {
		t.Error("other geometry should not be measurable")
	}
}

func TestClassifyLayer(t *testing.T) {
	tests := []struct {
		layer       string
		wantType    MemberType
		wantProfile string
		wantOK      bool
	}{
		{"DIAGONAL_L50X50X3", Diagonal, "L50X50X3", true},
		{"diagonal_l50x50x3", Diagonal, "L50X50X3", true},
		{"BANZO_U_100_50_3", Banzo, "U_100_50_3", true},
		{"MONTANTE", Montante, StandardProfile, true},
		{"banzo", Banzo, StandardProfile, true},
		{"TEXT_LAYER", "", "", false},
		{"0", "", "", false},
		{"DIAGONALS", "", "", false},
		{"", "", "", false},
		{"DIAGONAL_", Diagonal, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.layer, func(t *testing.T) {
			gotType, gotProfile, ok := ClassifyLayer(tt.layer)
			if ok != tt.wantOK {
				t.Fatalf("ClassifyLayer(%q): expected ok=%v, got %v", tt.layer, tt.wantOK, ok)
			}
			if gotType != tt.wantType {
				t.Errorf("ClassifyLayer(%q): expected type %q, got %q", tt.layer, tt.wantType, gotType)
			}
			if gotProfile != tt.wantProfile {
				t.Errorf("ClassifyLayer(%q): expected profile %q, got %q", tt.layer, tt.wantProfile, gotProfile)
			}
		})
	}
}

func TestLayerNameRoundTrip(t *testing.T) {
	name := LayerName(Montante, "TUBE_40X40X2")
	if name != "MONTANTE_TUBE_40X40X2" {
		t.Fatalf("unexpected layer name %q", name)
	}
	mt, profile, ok := ClassifyLayer(name)
	if !ok || mt != Montante || profile != "TUBE_40X40X2" {
		t.Errorf("round trip failed: %v %q %v", mt, profile, ok)
	}
}

func TestParseMemberType(t *testing.T) {
	if mt, ok := ParseMemberType(" banzo "); !ok || mt != Banzo {
		t.Errorf("expected BANZO, got %q ok=%v", mt, ok)
	}
	if _, ok := ParseMemberType("post"); ok {
		t.Error("expected unknown type to fail")
	}
}

func TestGroupKeyNormalizesCase(t *testing.T) {
	a := NewGroupKey("diagonal", "l50x50x3")
	b := Member{Type: Diagonal, Profile: "L50X50X3"}.Key()
	if a != b {
		t.Errorf("expected equal keys, got %+v and %+v", a, b)
	}
	if a.String() != "DIAGONAL_L50X50X3" {
		t.Errorf("unexpected key string %q", a.String())
	}
}

func TestGroupKeyLess(t *testing.T) {
	a := GroupKey{Type: Banzo, Profile: "Z"}
	b := GroupKey{Type: Diagonal, Profile: "A"}
	c := GroupKey{Type: Diagonal, Profile: "B"}
	if !a.Less(b) || !b.Less(c) || c.Less(b) {
		t.Error("keys should order by type then profile")
	}
}

func TestPieceID(t *testing.T) {
	got := PieceID(GroupKey{Type: Banzo, Profile: "U50"}, 7)
	if got != "BANZO_U50_7" {
		t.Errorf("expected BANZO_U50_7, got %s", got)
	}
}

func TestCuttingPlanValidate(t *testing.T) {
	if err := DefaultCuttingPlan().Validate(); err != nil {
		t.Errorf("default plan should be valid: %v", err)
	}
	bad := []CuttingPlan{
		{StockLength: 0, Kerf: 4},
		{StockLength: -1, Kerf: 4},
		{StockLength: 6000, Kerf: -1},
		{StockLength: math.NaN(), Kerf: 4},
		{StockLength: math.Inf(1), Kerf: 4},
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("expected error for %+v", p)
		}
	}
}

func TestBarUsage(t *testing.T) {
	bar := Bar{
		StockLength: 6000,
		Kerf:        4,
		Cuts:        []Cut{{PieceID: "a", Length: 2000}, {PieceID: "b", Length: 1500}, {PieceID: "c", Length: 500}},
	}
	// Three pieces, two kerfs after the first cut
	if got := bar.Used(); got != 4008 {
		t.Errorf("expected used 4008, got %f", got)
	}
	if got := bar.Remaining(); got != 1992 {
		t.Errorf("expected remaining 1992, got %f", got)
	}
	want := 4000.0 / 6000.0 * 100
	if math.Abs(bar.Efficiency()-want) > 1e-9 {
		t.Errorf("expected efficiency %f, got %f", want, bar.Efficiency())
	}
}

func TestReportTotalsAndLookup(t *testing.T) {
	r := Report{
		Summaries: []SummaryRow{
			{Group: GroupKey{Type: Banzo, Profile: "U"}, PieceCount: 2, TotalLength: 7000, BarsRequired: 2},
			{Group: GroupKey{Type: Diagonal, Profile: "L"}, PieceCount: 3, TotalLength: 1500, BarsRequired: 1},
		},
	}
	if r.TotalBars() != 3 {
		t.Errorf("expected 3 bars, got %d", r.TotalBars())
	}
	if r.TotalLength() != 8500 {
		t.Errorf("expected 8500 total length, got %f", r.TotalLength())
	}
	row, ok := r.Summary(GroupKey{Type: Diagonal, Profile: "L"})
	if !ok || row.PieceCount != 3 {
		t.Errorf("expected DIAGONAL_L row, got %+v ok=%v", row, ok)
	}
	if _, ok := r.Summary(GroupKey{Type: Montante, Profile: "L"}); ok {
		t.Error("expected missing group lookup to fail")
	}
}

func TestSummaryRowEfficiency(t *testing.T) {
	row := SummaryRow{TotalLength: 9000, BarsRequired: 2}
	if got := row.Efficiency(6000); math.Abs(got-75) > 1e-9 {
		t.Errorf("expected 75%%, got %f", got)
	}
	if got := (SummaryRow{}).Efficiency(6000); got != 0 {
		t.Errorf("expected 0 for empty row, got %f", got)
	}
}
