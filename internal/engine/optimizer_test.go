package engine

import (
	"errors"
	"testing"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestPlan() model.CuttingPlan {
	return model.CuttingPlan{StockLength: 6000, Kerf: 4}
}

func TestCountBars_Empty(t *testing.T) {
	bars, err := New(defaultTestPlan()).CountBars(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, bars)
}

func TestCountBars_ExactFitPaysNoKerf(t *testing.T) {
	bars, err := New(defaultTestPlan()).CountBars([]float64{6000})
	require.NoError(t, err)
	assert.Equal(t, 1, bars)
}

func TestCountBars_KerfForcesSecondBar(t *testing.T) {
	// Second piece needs 3000+4 but only 3000 remains in the first bar
	bars, err := New(defaultTestPlan()).CountBars([]float64{3000, 3000})
	require.NoError(t, err)
	assert.Equal(t, 2, bars)
}

func TestCountBars_NoKerfSharesBar(t *testing.T) {
	bars, err := New(model.CuttingPlan{StockLength: 6000, Kerf: 0}).CountBars([]float64{3000, 3000})
	require.NoError(t, err)
	assert.Equal(t, 1, bars)
}

func TestCountBars_OversizedPieceFails(t *testing.T) {
	bars, err := New(defaultTestPlan()).CountBars([]float64{1000, 6001})
	require.Error(t, err)
	assert.Equal(t, 0, bars)
	assert.True(t, errors.Is(err, ErrOversizedPiece))

	var oversized *OversizedPieceError
	require.ErrorAs(t, err, &oversized)
	assert.Equal(t, 6001.0, oversized.Length)
	assert.Equal(t, 6000.0, oversized.StockLength)
}

func TestPack_OversizedReportsPieceID(t *testing.T) {
	_, err := New(defaultTestPlan()).Pack([]Piece{{ID: "BANZO_U50_3", Length: 7200}})

	var oversized *OversizedPieceError
	require.ErrorAs(t, err, &oversized)
	assert.Equal(t, "BANZO_U50_3", oversized.PieceID)
	assert.Contains(t, err.Error(), "BANZO_U50_3")
}

func TestPack_InvalidPlan(t *testing.T) {
	plans := []model.CuttingPlan{
		{StockLength: 0, Kerf: 4},
		{StockLength: 6000, Kerf: -2},
	}
	for _, plan := range plans {
		_, err := New(plan).Pack([]Piece{{Length: 100}})
		assert.ErrorIs(t, err, ErrInvalidPlan)
	}
}

func TestPack_InvalidPieceLength(t *testing.T) {
	for _, length := range []float64{0, -10} {
		_, err := New(defaultTestPlan()).Pack([]Piece{{Length: length}})
		assert.ErrorIs(t, err, ErrInvalidPiece)
	}
}

func TestPack_FirstFitDecreasing(t *testing.T) {
	opt := New(defaultTestPlan())
	pieces := []Piece{
		{ID: "a", Length: 2000},
		{ID: "b", Length: 4000},
		{ID: "c", Length: 1000},
		{ID: "d", Length: 3000},
	}

	bars, err := opt.Pack(pieces)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	// Bar 1: 4000, then 3000 and 2000 do not fit with kerf, 1000 does
	assert.Equal(t, []model.Cut{{PieceID: "b", Length: 4000}, {PieceID: "c", Length: 1000}}, bars[0].Cuts)
	// Bar 2: 3000 then 2000 (2004 <= 3000)
	assert.Equal(t, []model.Cut{{PieceID: "d", Length: 3000}, {PieceID: "a", Length: 2000}}, bars[1].Cuts)
}

func TestPack_TiesKeepInputOrder(t *testing.T) {
	bars, err := New(defaultTestPlan()).Pack([]Piece{
		{ID: "first", Length: 2000},
		{ID: "second", Length: 2000},
		{ID: "third", Length: 2000},
	})
	require.NoError(t, err)
	require.Len(t, bars, 2)

	// 2000 + 2004 = 4004, a third cut would need 2004 with only 1996 left
	assert.Equal(t, "first", bars[0].Cuts[0].PieceID)
	assert.Equal(t, "second", bars[0].Cuts[1].PieceID)
	assert.Equal(t, "third", bars[1].Cuts[0].PieceID)
}

func TestPack_DoesNotMutateInput(t *testing.T) {
	pieces := []Piece{{ID: "a", Length: 100}, {ID: "b", Length: 500}, {ID: "c", Length: 300}}
	_, err := New(defaultTestPlan()).Pack(pieces)
	require.NoError(t, err)
	assert.Equal(t, []Piece{{ID: "a", Length: 100}, {ID: "b", Length: 500}, {ID: "c", Length: 300}}, pieces)
}

func TestPack_BarsNeverOverflow(t *testing.T) {
	var pieces []Piece
	for i := 0; i < 60; i++ {
		// Deterministic spread of lengths between 350 and 5900
		pieces = append(pieces, Piece{Length: float64(350 + (i*977)%5550)})
	}

	opt := New(defaultTestPlan())
	bars, err := opt.Pack(pieces)
	require.NoError(t, err)

	placed := 0
	for _, bar := range bars {
		require.NotEmpty(t, bar.Cuts)
		assert.LessOrEqual(t, bar.Used(), bar.StockLength)
		placed += len(bar.Cuts)
	}
	assert.Equal(t, len(pieces), placed, "every piece must be cut exactly once")

	count, err := opt.CountBars(lengthsOf(pieces))
	require.NoError(t, err)
	assert.Equal(t, len(bars), count, "CountBars and Pack must agree")
}

func TestPack_Deterministic(t *testing.T) {
	pieces := []Piece{
		{ID: "a", Length: 1200}, {ID: "b", Length: 2450.5}, {ID: "c", Length: 1200},
		{ID: "d", Length: 5100}, {ID: "e", Length: 800}, {ID: "f", Length: 2450.5},
	}
	opt := New(defaultTestPlan())

	first, err := opt.Pack(pieces)
	require.NoError(t, err)
	second, err := opt.Pack(pieces)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPack_ToleratesMeasurementNoise(t *testing.T) {
	// A polyline measured at a hair over stock length still fits an empty bar
	bars, err := New(defaultTestPlan()).CountBars([]float64{6000.0000000001})
	require.NoError(t, err)
	assert.Equal(t, 1, bars)
}

func lengthsOf(pieces []Piece) []float64 {
	out := make([]float64, len(pieces))
	for i, p := range pieces {
		out[i] = p.Length
	}
	return out
}
