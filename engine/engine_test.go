package engine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliverans/fourengine/engine"
	"github.com/oliverans/fourengine/internal/book"
	"github.com/oliverans/fourengine/internal/position"
)

// The following scores are the standard, widely published expected values
// for the 7x6 strong Connect-4 solver test suite.

func TestSolveEmptyBoard(t *testing.T) {
	e := engine.New()
	sol, err := e.SolveVariation("")
	require.NoError(t, err)
	assert.Equal(t, 1, sol.Score)
	assert.Greater(t, sol.WorkCount, uint64(0))
}

func TestSolvePublishedTestSetLine(t *testing.T) {
	e := engine.New()
	sol, err := e.SolveVariation("44444447")
	require.NoError(t, err)
	assert.Equal(t, -2, sol.Score)
}

func TestSolveSingleCenterDrop(t *testing.T) {
	e := engine.New()
	sol, err := e.SolveVariation("4")
	require.NoError(t, err)
	assert.Equal(t, 2, sol.Score)
}

func TestSolveTwoPly(t *testing.T) {
	e := engine.New()
	sol, err := e.SolveVariation("45")
	require.NoError(t, err)
	assert.Equal(t, -1, sol.Score)
}

func TestSolveDrawSequenceMatchesItsMirror(t *testing.T) {
	e := engine.New()
	sol, err := e.SolveVariation("32164625")
	require.NoError(t, err)
	assert.Equal(t, 0, sol.Score)

	mirrored := mirrorVariation(t, "32164625")
	e2 := engine.New()
	sol2, err := e2.SolveVariation(mirrored)
	require.NoError(t, err)
	assert.Equal(t, sol.Score, sol2.Score)
}

func mirrorVariation(t *testing.T, variation string) string {
	t.Helper()
	var b strings.Builder
	for _, c := range variation {
		col := int(c - '1')
		b.WriteByte(byte('1' + (position.Width - 1 - col)))
	}
	return b.String()
}

func TestSolverDeterministic(t *testing.T) {
	e1 := engine.New()
	sol1, err := e1.SolveVariation("444444")
	require.NoError(t, err)

	e2 := engine.New()
	sol2, err := e2.SolveVariation("444444")
	require.NoError(t, err)

	assert.Equal(t, sol1.Score, sol2.Score)
	assert.Equal(t, sol1.WorkCount, sol2.WorkCount)
}

func TestInvalidVariationRejected(t *testing.T) {
	e := engine.New()
	_, err := e.SolveVariation("8")
	assert.Error(t, err)
}

func TestBookRoundTripReducesWork(t *testing.T) {
	// Generate a tiny book at ply 2, reload it into a fresh engine, and
	// check the empty-board solve still returns the correct score with
	// fewer search calls than a bookless solve.
	gen := engine.New()
	var buf bytes.Buffer
	n, err := book.Generate(&buf, 2, gen)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	loaded, err := book.Load(&buf)
	require.NoError(t, err)

	withoutBook := engine.New()
	solWithout, err := withoutBook.SolveVariation("")
	require.NoError(t, err)

	withBook := engine.New()
	withBook.SetBook(loaded, 2)
	solWith, err := withBook.SolveVariation("")
	require.NoError(t, err)

	assert.Equal(t, solWithout.Score, solWith.Score)
	assert.Less(t, solWith.WorkCount, solWithout.WorkCount)
}

func TestWorkCountReflectsMostRecentSolve(t *testing.T) {
	e := engine.New()
	sol, err := e.SolveVariation("44")
	require.NoError(t, err)
	assert.Equal(t, sol.WorkCount, e.WorkCount())

	sol2, err := e.SolveVariation("15")
	require.NoError(t, err)
	assert.Equal(t, sol2.WorkCount, e.WorkCount())
}

func TestResetTableClearsAccumulatedEntries(t *testing.T) {
	e := engine.New()
	_, err := e.SolveVariation("44")
	require.NoError(t, err)
	require.Greater(t, e.WorkCount(), uint64(0))

	e.ResetTable()

	// A cold table must reproduce the exact same score; only the amount
	// of work to get there can differ.
	sol, err := e.SolveVariation("44")
	require.NoError(t, err)
	assert.Equal(t, 2, sol.Score)
}

func TestEngineReusableAcrossSolves(t *testing.T) {
	e := engine.New()
	sol1, err := e.SolveVariation("44")
	require.NoError(t, err)
	require.Greater(t, sol1.WorkCount, uint64(0))

	// The same Engine (and its warmed-up TT) can solve an unrelated
	// position afterwards without resetting anything.
	sol2, err := e.SolveVariation("15")
	require.NoError(t, err)
	assert.Greater(t, sol2.WorkCount, uint64(0))
}
