// Package position implements the Connect-4 board representation: two
// 64-bit bitboards (current player's stones and the union mask), legal-move
// generation, win detection and the canonical mirror-invariant key used to
// index the transposition table and opening book.
package position

import (
	"errors"
	"fmt"
	"math/bits"
)

// Board dimensions are build-time constants; the board is always the
// standard 7-wide, 6-tall grid.
const (
	Width  = 7
	Height = 6

	// Each column carries one extra sentinel bit above its H playable
	// rows, so a single uint64 addresses W*(H+1) = 49 bits.
	colHeight = Height + 1
)

// MaxScore bounds every score this package or the search package can ever
// return: a win on the very first possible move scores +((W*H+1-0)/2),
// which for the standard 7x6 board is 21; draws score 0.
const MaxScore = (Width*Height + 1) / 2

// Errors returned by New. Distinct sentinel values let callers distinguish
// "this drop was illegal" from "the game was already decided" without
// parsing the message.
var (
	// ErrInvalidVariation covers an out-of-range column digit or a drop
	// into a column that is already full.
	ErrInvalidVariation = errors.New("fourengine: invalid variation")
	// ErrAlreadyWon covers a variation that keeps playing moves after
	// the game was already decided by an earlier drop.
	ErrAlreadyWon = errors.New("fourengine: variation continues after a win")
)

// InvalidVariationError names the offending character and its index so
// callers can build a precise one-line diagnostic naming the bad input.
type InvalidVariationError struct {
	Variation string
	Index     int
	Reason    string
}

func (e *InvalidVariationError) Error() string {
	return fmt.Sprintf("fourengine: invalid variation %q at index %d: %s", e.Variation, e.Index, e.Reason)
}

func (e *InvalidVariationError) Unwrap() error { return ErrInvalidVariation }

// AlreadyWonError reports the index of the character that tried to extend a
// decided game.
type AlreadyWonError struct {
	Variation string
	Index     int
}

func (e *AlreadyWonError) Error() string {
	return fmt.Sprintf("fourengine: variation %q already decided before index %d", e.Variation, e.Index)
}

func (e *AlreadyWonError) Unwrap() error { return ErrAlreadyWon }

// Position is the immutable state of a Connect-4 board: two bitboards over
// a 49-bit column-major layout, one extra sentinel bit per column above
// its six playable rows.
//
//	    6 13 20 27 34 41 48   (sentinel row, always zero in Mask)
//	    5 12 19 26 33 40 47
//	    4 11 18 25 32 39 46
//	    3 10 17 24 31 38 45
//	    2  9 16 23 30 37 44
//	    1  8 15 22 29 36 43
//	    0  7 14 21 28 35 42
//
// Current holds the stones of the side to move; Mask holds every occupied
// cell of either side. A Position is never mutated after construction:
// Drop returns a new value.
type Position struct {
	Current uint64
	Mask    uint64
}

// New builds the initial empty board.
func New() Position { return Position{} }

// FromVariation parses a variation string: a possibly empty sequence of
// ASCII digits '1'..'7', each one a 1-indexed column. It fails
// closed: an out-of-range digit, a drop into a full column, or any
// character following a winning drop is an error and no partial state is
// returned.
func FromVariation(variation string) (Position, error) {
	p := New()
	for i, c := range variation {
		if c < '1' || c > '0'+rune(Width) {
			return Position{}, &InvalidVariationError{Variation: variation, Index: i, Reason: "column digit out of range"}
		}
		col := int(c-'1')
		if !p.CanDrop(col) {
			return Position{}, &InvalidVariationError{Variation: variation, Index: i, Reason: "column is full"}
		}
		child := p.Drop(col)
		if child.HasWon() {
			// A win decides the game; any further character is illegal.
			if i != len([]rune(variation))-1 {
				return Position{}, &AlreadyWonError{Variation: variation, Index: i + 1}
			}
		}
		p = child
	}
	return p, nil
}

// columnMask returns the H playable bits of column x; its sentinel bit is
// not included.
func columnMask(x int) uint64 {
	return ((uint64(1) << Height) - 1) << (x * colHeight)
}

// bottomMask returns the single bottom-row bit of column x.
func bottomMask(x int) uint64 {
	return uint64(1) << (x * colHeight)
}

// boardMask is every playable (non-sentinel) cell on the board.
func boardMask() uint64 {
	var m uint64
	for x := 0; x < Width; x++ {
		m |= columnMask(x)
	}
	return m
}

var fullBoardMask = boardMask()

// Ply is the number of stones on the board; ply 0 is the empty board and
// Player One is to move iff Ply is even.
func (p Position) Ply() int { return bits.OnesCount64(p.Mask) }

// CanDrop reports whether col is a legal column to drop into.
func (p Position) CanDrop(col int) bool {
	if col < 0 || col >= Width {
		return false
	}
	return p.Mask&topSentinel(col) == 0
}

func topSentinel(col int) uint64 {
	return uint64(1) << (col*colHeight + Height - 1)
}

// Height reports the number of stones already stacked in col.
func (p Position) Height(col int) int {
	return bits.OnesCount64(p.Mask & columnMask(col))
}

// landingBit is the single bit where the next stone dropped in col would
// land.
func (p Position) landingBit(col int) uint64 {
	return (p.Mask + bottomMask(col)) & columnMask(col)
}

// Drop returns the child position after the side to move plays col. The
// caller must have already checked CanDrop(col); Drop does not itself
// validate the column.
func (p Position) Drop(col int) Position {
	// The side to move alternates: the child's "current" player is THIS
	// position's opponent, computed from the OLD mask before the new
	// stone is added — the new stone belongs to the player who just
	// moved, who is no longer "current" in the child.
	newCurrent := p.Current ^ p.Mask
	newMask := p.Mask | p.landingBit(col)
	return Position{Current: newCurrent, Mask: newMask}
}

// Opponent returns the bitboard of the side NOT to move.
func (p Position) Opponent() uint64 { return p.Mask ^ p.Current }

// HasWon reports whether the player who moved last (the current side's
// opponent) completed a four-in-a-row.
func (p Position) HasWon() bool { return four(p.Opponent()) != 0 }

// four returns the bitboard of cells that are the "anchor" of a completed
// four-in-a-row within b, checked along all four directions.
func four(b uint64) uint64 {
	// Vertical.
	m := b & (b >> 1)
	r := m & (m >> 2)
	// Horizontal.
	m = b & (b >> colHeight)
	r |= m & (m >> (2 * colHeight))
	// Diagonal ascending (/).
	m = b & (b >> Height)
	r |= m & (m >> (2 * Height))
	// Diagonal descending (\).
	m = b & (b >> (Height + 2))
	r |= m & (m >> (2 * (Height + 2)))
	return r
}

// winningSpots computes, for a player occupying `own` on a board with
// occupancy `mask`, the bitboard of empty cells that would complete a
// four-in-a-row if a stone were placed there right now (including
// unreachable, "floating" cells above the current stack — callers combine
// this with Possible() to get only playable ones).
func winningSpots(own, mask uint64) uint64 {
	// Vertical: three in a row already, one more on top wins.
	r := (own << 1) & (own << 2) & (own << 3)

	r |= threatsAlong(own, colHeight)  // horizontal
	r |= threatsAlong(own, Height)     // diagonal ascending (/)
	r |= threatsAlong(own, Height+2)   // diagonal descending (\)

	return r &^ mask & fullBoardMask
}

// threatsAlong finds, for a single direction whose step in the 49-bit
// layout is `step` bits, every empty cell that completes an open
// three-in-a-row of own's stones along that direction (from either end).
func threatsAlong(own uint64, step int) uint64 {
	p := (own << step) & (own << (2 * step))
	r := p & (own << (3 * step))
	r |= p & (own >> step)
	p = (own >> step) & (own >> (2 * step))
	r |= p & (own << step)
	r |= p & (own >> (3 * step))
	return r
}

// Possible returns every playable cell: for each column, the single bit
// just above its current stack (bounded by the board mask so it never
// overflows into the next column's sentinel).
func (p Position) Possible() uint64 {
	return (p.Mask + bottomRowAll()) & fullBoardMask
}

func bottomRowAll() uint64 {
	var m uint64
	for x := 0; x < Width; x++ {
		m |= bottomMask(x)
	}
	return m
}

// IsWinningDrop reports whether dropping into col immediately completes a
// four-in-a-row for the side to move.
func (p Position) IsWinningDrop(col int) bool {
	if !p.CanDrop(col) {
		return false
	}
	return winningSpots(p.Current, p.Mask)&p.landingBit(col) != 0
}

// HasImmediateWin reports whether any legal drop wins right now.
func (p Position) HasImmediateWin() bool {
	return winningSpots(p.Current, p.Mask)&p.Possible() != 0
}

// Threats returns the bitboard of empty cells where the OPPONENT (the side
// that just moved) would complete four-in-a-row, restricted to actually
// playable cells. A move that lands on one of these blocks it; leaving one
// open hands the opponent an immediate win next turn.
func (p Position) Threats() uint64 {
	return winningSpots(p.Opponent(), p.Mask) & p.Possible()
}

// NonLosingMoves returns the subset of Possible() that does not lose
// immediately. If the opponent has exactly one playable threat, only the
// column that blocks it is kept; if the opponent has two or more, they
// cannot all be blocked, so this position is already lost and
// NonLosingMoves is 0. Columns whose landing cell lies directly beneath an
// opponent winning cell are removed as well.
func (p Position) NonLosingMoves() uint64 {
	possible := p.Possible()
	threats := p.Threats()
	if threats != 0 {
		// If the current player has an immediate win, playing it takes
		// priority over defending; that decision lives in Search, so
		// this only prunes columns that would abandon a *different*,
		// undefended threat immediately.
		if threats&(threats-1) != 0 {
			// Two or more open threats: unstoppable.
			return 0
		}
		possible &= threats
	}
	// Never play directly beneath an opponent threat: that would open the
	// square above it for them.
	forbidden := (winningSpots(p.Opponent(), p.Mask)) >> 1
	return possible &^ forbidden
}

// CanonicalKey returns an injective, mirror-invariant 64-bit fingerprint:
// the classic reversible `current + mask + bottom_row_ones` encoding,
// taking the lexicographic minimum of the position and its horizontal
// mirror.
func (p Position) CanonicalKey() uint64 {
	key := p.Current + p.Mask + bottomRowAll()
	mCurrent, mMask := p.mirrorBoards()
	mKey := mCurrent + mMask + bottomRowAll()
	if mKey < key {
		return mKey
	}
	return key
}

// mirrorBoards swaps column x with column (Width-1-x) for both bitboards.
func (p Position) mirrorBoards() (current, mask uint64) {
	for x := 0; x < Width/2; x++ {
		other := Width - 1 - x
		shift := uint((other - x) * colHeight)
		current |= ((p.Current & columnMask(x)) << shift) | ((p.Current & columnMask(other)) >> shift)
		mask |= ((p.Mask & columnMask(x)) << shift) | ((p.Mask & columnMask(other)) >> shift)
	}
	if Width%2 == 1 {
		mid := Width / 2
		current |= p.Current & columnMask(mid)
		mask |= p.Mask & columnMask(mid)
	}
	return current, mask
}

// IsDraw reports whether the board is completely full without a winner.
func (p Position) IsDraw() bool { return p.Mask == fullBoardMask }
