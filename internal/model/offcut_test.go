package model

import "testing"

func TestDetectRemnants(t *testing.T) {
	key := GroupKey{Type: Banzo, Profile: "U50"}
	plans := []GroupCutPlan{{
		Group: key,
		Bars: []Bar{
			{StockLength: 6000, Kerf: 4, Cuts: []Cut{{Length: 5000}}},                 // 1000 - 4 = 996
			{StockLength: 6000, Kerf: 4, Cuts: []Cut{{Length: 3000}, {Length: 2800}}}, // 196 - 4 = 192
			{StockLength: 6000, Kerf: 4, Cuts: []Cut{{Length: 1000}}},                 // 5000 - 4 = 4996
		},
	}}

	remnants := DetectRemnants(plans, 500)
	if len(remnants) != 2 {
		t.Fatalf("expected 2 remnants, got %d: %+v", len(remnants), remnants)
	}
	if remnants[0].Length != 4996 || remnants[0].BarIndex != 3 {
		t.Errorf("expected longest remnant first (bar 3, 4996), got %+v", remnants[0])
	}
	if remnants[1].Length != 996 || remnants[1].BarIndex != 1 {
		t.Errorf("expected bar 1 remnant of 996, got %+v", remnants[1])
	}
	if remnants[0].Group != key {
		t.Errorf("remnant should carry its group, got %+v", remnants[0].Group)
	}
	if TotalRemnantLength(remnants) != 5992 {
		t.Errorf("expected total 5992, got %f", TotalRemnantLength(remnants))
	}
}

func TestDetectRemnantsExactFitLeavesNothing(t *testing.T) {
	plans := []GroupCutPlan{{
		Bars: []Bar{{StockLength: 6000, Kerf: 4, Cuts: []Cut{{Length: 6000}}}},
	}}
	if got := DetectRemnants(plans, 0); len(got) != 0 {
		t.Errorf("expected no remnants for an exact fit, got %+v", got)
	}
}
