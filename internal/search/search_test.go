package search

import (
	"testing"

	"github.com/oliverans/fourengine/internal/position"
	"github.com/oliverans/fourengine/internal/tt"
)

// fullBoard builds a Position whose Mask has every playable cell set,
// without needing to replay a legal, winless 42-ply game: Solve's draw
// cut-off only inspects Position.IsDraw(), which compares against exactly
// this mask.
func fullBoard() position.Position {
	var mask uint64
	for col := 0; col < position.Width; col++ {
		colMask := uint64(1)<<position.Height - 1
		mask |= colMask << (col * (position.Height + 1))
	}
	return position.Position{Mask: mask}
}

func TestSolveDrawOnFullBoard(t *testing.T) {
	ctx := NewContext(tt.New(1024))
	if got := Solve(ctx, fullBoard()); got != 0 {
		t.Fatalf("Solve(full board) = %d, want 0", got)
	}
}

func TestNegamaxProducesPositiveWorkCount(t *testing.T) {
	shallow := NewContext(tt.New(1 << 16))
	Solve(shallow, mustPosition(t, "44"))

	deeper := NewContext(tt.New(1 << 16))
	Solve(deeper, mustPosition(t, "4"))

	if shallow.WorkCount == 0 || deeper.WorkCount == 0 {
		t.Fatalf("expected positive work counts, got shallow=%d deeper=%d", shallow.WorkCount, deeper.WorkCount)
	}
}

func mustPosition(t *testing.T, variation string) position.Position {
	t.Helper()
	p, err := position.FromVariation(variation)
	if err != nil {
		t.Fatalf("FromVariation(%q): %v", variation, err)
	}
	return p
}
