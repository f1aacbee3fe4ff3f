package ordering

import (
	"testing"

	"github.com/oliverans/fourengine/internal/position"
)

func TestCandidatesOnEmptyBoardStartsCenter(t *testing.T) {
	cols := Candidates(position.New(), nil)
	if len(cols) == 0 {
		t.Fatalf("expected candidates on the empty board")
	}
	if cols[0] != 3 {
		t.Fatalf("expected the center column (3) first on an empty board, got %d", cols[0])
	}
}

func TestCandidatesExcludeFullColumns(t *testing.T) {
	// Two drops in column 0, then two in column 1, repeated: each column
	// receives alternating colors, so column 0 fills completely (6
	// stones) without ever forming a vertical four, and with only two
	// columns in play no horizontal or diagonal four is possible either.
	full, err := position.FromVariation("1122112211")
	if err != nil {
		t.Fatalf("FromVariation: %v", err)
	}
	if full.CanDrop(0) {
		t.Fatalf("test setup invalid: column 0 should be full")
	}
	for _, c := range Candidates(full, nil) {
		if c == 0 {
			t.Fatalf("Candidates returned full column 0")
		}
	}
}

func TestHistoryBumpIncreasesColumnCount(t *testing.T) {
	var h History
	h.Bump(0, 5)
	if h.counts[0] == 0 {
		t.Fatalf("expected Bump to increase the history count for column 0")
	}
}
