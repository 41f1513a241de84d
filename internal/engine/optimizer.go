package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/TrussCut/internal/model"
)

var (
	// ErrOversizedPiece matches any *OversizedPieceError.
	ErrOversizedPiece = errors.New("piece exceeds stock length")
	ErrInvalidPlan    = errors.New("invalid cutting plan")
	ErrInvalidPiece   = errors.New("invalid piece length")
)

// lengthTolerance absorbs floating point noise from measured geometry, in mm.
const lengthTolerance = 1e-6

// OversizedPieceError reports a piece that cannot fit in an empty stock bar.
type OversizedPieceError struct {
	PieceID     string
	Length      float64
	StockLength float64
}

func (e *OversizedPieceError) Error() string {
	if e.PieceID != "" {
		return fmt.Sprintf("piece %s of %.1f mm exceeds stock length %.1f mm", e.PieceID, e.Length, e.StockLength)
	}
	return fmt.Sprintf("piece of %.1f mm exceeds stock length %.1f mm", e.Length, e.StockLength)
}

func (e *OversizedPieceError) Is(target error) bool {
	return target == ErrOversizedPiece
}

// Piece is one length to cut from stock.
type Piece struct {
	ID     string
	Length float64
}

// Optimizer runs the 1D cutting-stock heuristic.
type Optimizer struct {
	Plan model.CuttingPlan
}

func New(plan model.CuttingPlan) *Optimizer {
	return &Optimizer{Plan: plan}
}

// CountBars returns the number of stock bars needed to cut every length.
func (o *Optimizer) CountBars(lengths []float64) (int, error) {
	pieces := make([]Piece, len(lengths))
	for i, l := range lengths {
		pieces[i] = Piece{Length: l}
	}
	bars, err := o.Pack(pieces)
	if err != nil {
		return 0, err
	}
	return len(bars), nil
}

// Pack assigns pieces to stock bars with First-Fit Decreasing. Pieces are taken
// longest first (ties keep input order). One bar is open at a time: the scan
// places the first pending piece that still fits, and the bar is closed when no
// pending piece fits. Every cut after the first in a bar costs one kerf.
//
// The result is fully determined by the input order. A piece longer than the
// stock fails with *OversizedPieceError before any packing starts.
func (o *Optimizer) Pack(pieces []Piece) ([]model.Bar, error) {
	if err := o.Plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if len(pieces) == 0 {
		return nil, nil
	}
	if err := o.checkPieces(pieces); err != nil {
		return nil, err
	}

	pending := sortDescending(pieces)
	var bars []model.Bar

	for len(pending) > 0 {
		bar := model.Bar{StockLength: o.Plan.StockLength, Kerf: o.Plan.Kerf}
		remaining := o.Plan.StockLength

		// Pieces skipped earlier in the scan cannot fit later, since capacity only shrinks.
		for i := 0; i < len(pending); {
			need := pending[i].Length
			if len(bar.Cuts) > 0 {
				need += o.Plan.Kerf
			}
			if need > remaining+lengthTolerance {
				i++
				continue
			}
			bar.Cuts = append(bar.Cuts, model.Cut{PieceID: pending[i].ID, Length: pending[i].Length})
			remaining -= need
			pending = append(pending[:i], pending[i+1:]...)
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

// checkPieces rejects lengths that would stall the packing loop.
func (o *Optimizer) checkPieces(pieces []Piece) error {
	for _, p := range pieces {
		if math.IsNaN(p.Length) || math.IsInf(p.Length, 0) || p.Length <= 0 {
			return fmt.Errorf("%w: %v", ErrInvalidPiece, p.Length)
		}
		if p.Length > o.Plan.StockLength+lengthTolerance {
			return &OversizedPieceError{
				PieceID:     p.ID,
				Length:      p.Length,
				StockLength: o.Plan.StockLength,
			}
		}
	}
	return nil
}

// sortDescending returns a copy of pieces ordered by length, longest first.
func sortDescending(pieces []Piece) []Piece {
	sorted := make([]Piece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Length > sorted[j].Length
	})
	return sorted
}
