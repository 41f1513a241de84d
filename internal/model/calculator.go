package model

import "math"

// PurchaseEstimate holds the results of a stock bar purchasing calculation.
type PurchaseEstimate struct {
	TotalPieceLength float64 `json:"total_piece_length"` // Sum of all piece lengths (mm)
	TotalKerfLength  float64 `json:"total_kerf_length"`  // Worst-case kerf allowance (mm)
	StockLength      float64 `json:"stock_length"`       // Length of one bar (mm)
	BarsLowerBound   int     `json:"bars_lower_bound"`   // ceil(total / stock), ignoring how pieces fit
	BarsPlanned      int     `json:"bars_planned"`       // Bars from the cutting plan
	BarsWithWaste    int     `json:"bars_with_waste"`    // Recommended bars including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 10 for 10%)
	PricePerBar      float64 `json:"price_per_bar"`      // Price used for estimation
	EstimatedCost    float64 `json:"estimated_cost"`     // Total cost if pricing available
	Utilization      float64 `json:"utilization"`        // Piece length / planned stock length, percent
}

// CalculatePurchaseEstimate computes how many bars to buy for a set of summary rows.
// The planned count comes from the optimizer; the waste factor is applied on top of it
// to cover offcuts lost to handling and miscuts.
func CalculatePurchaseEstimate(summaries []SummaryRow, plan CuttingPlan, wastePercent, pricePerBar float64) PurchaseEstimate {
	var totalLength, totalKerf float64
	planned := 0
	for _, s := range summaries {
		totalLength += s.TotalLength
		if s.PieceCount > 1 {
			totalKerf += float64(s.PieceCount-1) * plan.Kerf
		}
		planned += s.BarsRequired
	}

	est := PurchaseEstimate{
		TotalPieceLength: totalLength,
		TotalKerfLength:  totalKerf,
		StockLength:      plan.StockLength,
		BarsPlanned:      planned,
		WastePercent:     wastePercent,
		PricePerBar:      pricePerBar,
	}
	if plan.StockLength <= 0 {
		return est
	}

	// Groups never share bars, so the bound is taken per group.
	for _, s := range summaries {
		est.BarsLowerBound += int(math.Ceil(s.TotalLength / plan.StockLength))
	}

	wasteFactor := 1.0 + (wastePercent / 100.0)
	est.BarsWithWaste = int(math.Ceil(float64(planned) * wasteFactor))
	if est.BarsWithWaste < planned {
		est.BarsWithWaste = planned
	}
	est.EstimatedCost = float64(est.BarsWithWaste) * pricePerBar

	if planned > 0 {
		est.Utilization = totalLength / (float64(planned) * plan.StockLength) * 100.0
	}
	return est
}
