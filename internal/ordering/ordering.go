// Package ordering ranks candidate Connect-4 columns for the search's
// alpha-beta loop: a static center-out order refined by a cheap
// threat-count heuristic.
package ordering

import (
	"math/bits"

	"golang.org/x/exp/slices"

	"github.com/oliverans/fourengine/internal/position"
)

// Static is the center-out column order that alone gives alpha-beta its
// characteristic pruning on Connect-4: the center column is by far the
// most valuable opening square.
var Static = [position.Width]int{3, 2, 4, 1, 5, 0, 6}

// scoredMove pairs a column with its ordering priority: a static base
// order refined by a per-column priority/history score.
type scoredMove struct {
	col      int
	priority int
	history  int
	slot     int // index into Static, used as the final tie-break
}

// History accumulates a per-column success count across a single solve,
// supplementing the priority heuristic with a cheap secondary tie-break.
// It is safe to share across an iterative-deepening run but, like the
// rest of the core, is not safe for concurrent use.
type History struct {
	counts [position.Width]int
}

// Bump rewards col for having been part of a beta cut-off, weighted by
// remaining search depth so moves that cut off deep subtrees count more.
func (h *History) Bump(col, depth int) {
	if col < 0 || col >= position.Width {
		return
	}
	h.counts[col] += depth * depth
}

// Candidates returns the columns of p.NonLosingMoves(), sorted by
// decreasing priority: the number of additional three-in-a-row threats the
// move creates for the mover, minus a penalty for handing the opponent an
// immediate reply win. Priority ties are broken by descending history
// score, and remaining ties fall back to the static center-out order.
// Losing moves are never included; a position with no such moves yields an
// empty slice, which Search treats as "the mover has lost". hist may be
// nil, in which case the history tie-break is skipped.
func Candidates(p position.Position, hist *History) []int {
	nonLosing := p.NonLosingMoves()
	if nonLosing == 0 {
		return nil
	}

	moves := make([]scoredMove, 0, position.Width)
	for slot, col := range Static {
		bit := columnBit(p, col)
		if bit&nonLosing == 0 {
			continue
		}
		history := 0
		if hist != nil {
			history = hist.counts[col]
		}
		moves = append(moves, scoredMove{
			col:      col,
			priority: priority(p, col),
			history:  history,
			slot:     slot,
		})
	}

	slices.SortFunc(moves, func(a, b scoredMove) bool {
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.history != b.history {
			return a.history > b.history
		}
		return a.slot < b.slot
	})

	cols := make([]int, len(moves))
	for i, m := range moves {
		cols[i] = m.col
	}
	return cols
}

// columnBit returns the single landing bit for col in p, or 0 if col is
// not currently playable.
func columnBit(p position.Position, col int) uint64 {
	if !p.CanDrop(col) {
		return 0
	}
	child := p.Drop(col)
	// The landing bit is whatever bit differs between parent and child
	// masks.
	return child.Mask &^ p.Mask
}

// immediateGiftPenalty is subtracted from a move's priority when playing it
// hands the opponent an immediate winning reply — a cheap second-order
// check on top of the popcount heuristic.
const immediateGiftPenalty = 8

// winningMoveBonus outranks every other consideration: a drop that wins
// outright is always ordered first, ahead of moves scored purely by
// threat count.
const winningMoveBonus = 1 << 10

// priority scores a candidate drop by how many new three-in-a-row threats
// it creates for the mover, via a cheap bitboard popcount rather than a
// recursive evaluation, penalized if it opens an immediate winning reply
// for the opponent and boosted if the drop itself is a win.
func priority(p position.Position, col int) int {
	if p.IsWinningDrop(col) {
		return winningMoveBonus
	}
	child := p.Drop(col)
	// child.Opponent() is the mover's own stones after the drop (the side
	// to move flips inside Drop).
	score := bits.OnesCount64(child.Threats())
	if child.HasImmediateWin() {
		score -= immediateGiftPenalty
	}
	return score
}
