package model

import (
	"fmt"
	"math"
	"strings"
)

// MemberType is the structural role of a truss piece.
type MemberType string

const (
	Diagonal MemberType = "DIAGONAL" // Web member running at an angle between chords
	Montante MemberType = "MONTANTE" // Vertical web member (post)
	Banzo    MemberType = "BANZO"    // Top or bottom chord
)

// AllMemberTypes returns the recognized member types in display order.
func AllMemberTypes() []MemberType {
	return []MemberType{Diagonal, Montante, Banzo}
}

// ParseMemberType matches s case-insensitively against the recognized types.
func ParseMemberType(s string) (MemberType, bool) {
	switch MemberType(strings.ToUpper(strings.TrimSpace(s))) {
	case Diagonal:
		return Diagonal, true
	case Montante:
		return Montante, true
	case Banzo:
		return Banzo, true
	default:
		return "", false
	}
}

func (t MemberType) String() string {
	return string(t)
}

// Member is one extracted structural piece. Members are never mutated after extraction.
type Member struct {
	Type    MemberType `json:"type"`
	Profile string     `json:"profile"`
	Length  float64    `json:"length"` // mm
	Source  string     `json:"source"` // Drawing file the piece came from
}

// Key returns the aggregation key of the member.
func (m Member) Key() GroupKey {
	return NewGroupKey(m.Type, m.Profile)
}

// GroupKey is the (type, profile) aggregation unit.
type GroupKey struct {
	Type    MemberType `json:"type"`
	Profile string     `json:"profile"`
}

// NewGroupKey builds a key with both parts normalized to uppercase.
func NewGroupKey(t MemberType, profile string) GroupKey {
	return GroupKey{
		Type:    MemberType(strings.ToUpper(string(t))),
		Profile: strings.ToUpper(profile),
	}
}

// String returns the key in layer-name form, e.g. "DIAGONAL_L50X50X3".
func (k GroupKey) String() string {
	return LayerName(k.Type, k.Profile)
}

// Less orders keys by type, then profile.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Type != other.Type {
		return k.Type < other.Type
	}
	return k.Profile < other.Profile
}

// CuttingPlan configures the cutting-stock optimizer.
type CuttingPlan struct {
	StockLength float64 `json:"stock_length"` // Length of one raw stock bar in mm
	Kerf        float64 `json:"kerf"`         // Material lost per cut after the first in a bar, mm
}

const (
	DefaultStockLength = 6000.0
	DefaultKerf        = 4.0
)

// DefaultCuttingPlan returns 6 m bars with a 4 mm saw kerf.
func DefaultCuttingPlan() CuttingPlan {
	return CuttingPlan{
		StockLength: DefaultStockLength,
		Kerf:        DefaultKerf,
	}
}

// Validate reports whether the plan can be used by the optimizer.
func (p CuttingPlan) Validate() error {
	if math.IsNaN(p.StockLength) || math.IsInf(p.StockLength, 0) || p.StockLength <= 0 {
		return fmt.Errorf("stock length must be a positive number, got %v", p.StockLength)
	}
	if math.IsNaN(p.Kerf) || math.IsInf(p.Kerf, 0) || p.Kerf < 0 {
		return fmt.Errorf("kerf must be a non-negative number, got %v", p.Kerf)
	}
	return nil
}

// SummaryRow is the per-group line of a fabrication summary.
type SummaryRow struct {
	Group        GroupKey `json:"group"`
	PieceCount   int      `json:"piece_count"`
	TotalLength  float64  `json:"total_length"`
	BarsRequired int      `json:"bars_required"`
}

// Efficiency returns the share of purchased stock that ends up in pieces, in percent.
func (r SummaryRow) Efficiency(stockLength float64) float64 {
	bought := float64(r.BarsRequired) * stockLength
	if bought <= 0 {
		return 0
	}
	return (r.TotalLength / bought) * 100.0
}

// DetailRow is one piece in the fabrication roster.
type DetailRow struct {
	SequenceIndex int        `json:"sequence_index"` // 1-based, per group
	PieceID       string     `json:"piece_id"`       // TYPE_PROFILE_INDEX
	Length        float64    `json:"length"`
	Type          MemberType `json:"type"`
	Profile       string     `json:"profile"`
	Source        string     `json:"source"`
}

// PieceID synthesizes the roster identifier of the index-th piece of a group.
func PieceID(key GroupKey, index int) string {
	return fmt.Sprintf("%s_%s_%d", key.Type, key.Profile, index)
}

// Cut is a single piece assigned to a stock bar.
type Cut struct {
	PieceID string  `json:"piece_id"`
	Length  float64 `json:"length"`
}

// Bar is one stock bar with the pieces cut from it, in cutting order.
type Bar struct {
	StockLength float64 `json:"stock_length"`
	Kerf        float64 `json:"kerf"`
	Cuts        []Cut   `json:"cuts"`
}

// Used returns the material consumed by pieces and kerf.
func (b Bar) Used() float64 {
	var total float64
	for i, c := range b.Cuts {
		total += c.Length
		if i > 0 {
			total += b.Kerf
		}
	}
	return total
}

// Remaining returns the leftover length of the bar.
func (b Bar) Remaining() float64 {
	return b.StockLength - b.Used()
}

// Efficiency returns the share of the bar that went into pieces, in percent.
func (b Bar) Efficiency() float64 {
	if b.StockLength <= 0 {
		return 0
	}
	var pieces float64
	for _, c := range b.Cuts {
		pieces += c.Length
	}
	return (pieces / b.StockLength) * 100.0
}

// GroupCutPlan holds the bar layout computed for one group.
type GroupCutPlan struct {
	Group GroupKey `json:"group"`
	Bars  []Bar    `json:"bars"`
}

// Report is the derived fabrication view of a member list.
type Report struct {
	Plan      CuttingPlan    `json:"plan"`
	Details   []DetailRow    `json:"details"`
	Summaries []SummaryRow   `json:"summaries"`
	CutPlans  []GroupCutPlan `json:"cut_plans"`
}

// TotalBars returns the bars required over all groups. Groups never share bars,
// so summing across groups of one report is valid.
func (r Report) TotalBars() int {
	total := 0
	for _, s := range r.Summaries {
		total += s.BarsRequired
	}
	return total
}

// TotalLength returns the summed piece length over all groups.
func (r Report) TotalLength() float64 {
	var total float64
	for _, s := range r.Summaries {
		total += s.TotalLength
	}
	return total
}

// Summary returns the row for key, if present.
func (r Report) Summary(key GroupKey) (SummaryRow, bool) {
	for _, s := range r.Summaries {
		if s.Group == key {
			return s, true
		}
	}
	return SummaryRow{}, false
}
