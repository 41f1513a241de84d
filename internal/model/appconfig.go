package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Cutting defaults applied to every analysis run
	DefaultStockLength float64 `json:"default_stock_length"`
	DefaultKerf        float64 `json:"default_kerf"`

	// Aggregation: fold STANDARD-profile pieces into the single explicit
	// profile of the same type when one exists
	MergeStandardProfile bool `json:"merge_standard_profile"`

	// Purchasing
	WastePercent     float64 `json:"waste_percent"`
	PricePerBar      float64 `json:"price_per_bar"`
	MinRemnantLength float64 `json:"min_remnant_length"` // mm; shorter leftovers are scrap

	// Output
	ReportsDir      string `json:"reports_dir"`
	PerFileReports  bool   `json:"per_file_reports"` // Also write one workbook per drawing
	CombinedReports bool   `json:"combined_reports"` // Write a workbook for the whole batch

	// Application preferences
	RecentFiles []string `json:"recent_files"`
	Theme       string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching DefaultCuttingPlan().
func DefaultAppConfig() AppConfig {
	plan := DefaultCuttingPlan()
	return AppConfig{
		DefaultStockLength:   plan.StockLength,
		DefaultKerf:          plan.Kerf,
		MergeStandardProfile: false,
		WastePercent:         0,
		PricePerBar:          0,
		MinRemnantLength:     500,
		ReportsDir:           "reports",
		PerFileReports:       true,
		CombinedReports:      true,
		RecentFiles:          []string{},
		Theme:                "system",
	}
}

// CuttingPlan returns the optimizer configuration stored in the config.
func (c AppConfig) CuttingPlan() CuttingPlan {
	return CuttingPlan{
		StockLength: c.DefaultStockLength,
		Kerf:        c.DefaultKerf,
	}
}

// AddRecentFile moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentFile(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentFiles {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentFiles = recent
}
