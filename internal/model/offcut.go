package model

import "sort"

// Remnant is a leftover length of a stock bar long enough to be reused.
type Remnant struct {
	Group    GroupKey `json:"group"`
	BarIndex int      `json:"bar_index"` // 1-based index of the bar within its group
	Length   float64  `json:"length"`    // Usable length (mm), after the closing kerf
}

// DetectRemnants finds leftovers of at least minLength mm across a report's cut plans.
// The saw still has to separate the remnant from the last piece, so one kerf is
// deducted from the raw leftover.
func DetectRemnants(plans []GroupCutPlan, minLength float64) []Remnant {
	var remnants []Remnant
	for _, gp := range plans {
		for i, bar := range gp.Bars {
			left := bar.Remaining()
			if len(bar.Cuts) > 0 {
				left -= bar.Kerf
			}
			if left >= minLength && left > 0 {
				remnants = append(remnants, Remnant{
					Group:    gp.Group,
					BarIndex: i + 1,
					Length:   left,
				})
			}
		}
	}

	// Longest first, stable so equal lengths keep plan order
	sort.SliceStable(remnants, func(i, j int) bool {
		return remnants[i].Length > remnants[j].Length
	})
	return remnants
}

// TotalRemnantLength returns the summed length of all remnants in mm.
func TotalRemnantLength(remnants []Remnant) float64 {
	var total float64
	for _, r := range remnants {
		total += r.Length
	}
	return total
}
