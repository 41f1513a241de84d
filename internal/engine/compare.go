package engine

import (
	"fmt"

	"github.com/piwi3910/TrussCut/internal/model"
)

// ComparisonScenario defines a named cutting plan to compare.
type ComparisonScenario struct {
	Name string
	Plan model.CuttingPlan
}

// ComparisonResult holds the report and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Report       model.Report
	Err          error // Set when the scenario cannot cut every piece
	BarsUsed     int
	StockUsed    float64 // mm of stock purchased
	WastePercent float64
}

// CompareScenarios builds a report for each scenario and returns the results
// in scenario order. A scenario that fails (for example a stock length shorter
// than the longest piece) is kept with its error so the caller can show it.
func CompareScenarios(scenarios []ComparisonScenario, members []model.Member, opts ReportOptions) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		report, err := BuildReport(members, scenario.Plan, opts)
		if err != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: err})
			continue
		}

		bars := report.TotalBars()
		stock := float64(bars) * scenario.Plan.StockLength
		waste := 0.0
		if stock > 0 {
			waste = 100.0 - report.TotalLength()/stock*100.0
		}

		results = append(results, ComparisonResult{
			Scenario:     scenario,
			Report:       report,
			BarsUsed:     bars,
			StockUsed:    stock,
			WastePercent: waste,
		})
	}

	return results
}

// commonStockLengths are bar lengths stocked by most steel suppliers, in mm.
var commonStockLengths = []float64{6000, 12000}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current plan, varying stock length and kerf to show what-if alternatives.
func BuildDefaultScenarios(base model.CuttingPlan) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name: "Current Plan",
			Plan: base,
		},
	}

	// Scenario: other standard bar lengths
	for _, length := range commonStockLengths {
		if length == base.StockLength {
			continue
		}
		alt := base
		alt.StockLength = length
		scenarios = append(scenarios, ComparisonScenario{
			Name: fmt.Sprintf("Stock %.0fmm", length),
			Plan: alt,
		})
	}

	// Scenario: Tighter kerf (simulate thinner blade)
	if base.Kerf > 1.0 {
		tight := base
		tight.Kerf = base.Kerf * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name: fmt.Sprintf("Kerf %.1fmm (half)", tight.Kerf),
			Plan: tight,
		})
	}

	// Scenario: No kerf, the theoretical best for this heuristic
	if base.Kerf > 0 {
		noKerf := base
		noKerf.Kerf = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name: "No Kerf",
			Plan: noKerf,
		})
	}

	return scenarios
}
