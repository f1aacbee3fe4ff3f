// Package search implements the negamax alpha-beta core and its MTD-style
// null-window driver: given a Position, it returns the exact
// game-theoretic score, consulting a transposition table and an optional
// opening book along the way.
package search

import (
	"github.com/oliverans/fourengine/internal/ordering"
	"github.com/oliverans/fourengine/internal/position"
	"github.com/oliverans/fourengine/internal/tt"
)

// BookProber is the narrow read-only interface Search needs from a Book.
type BookProber interface {
	Lookup(key uint64) (score int, hit bool)
}

// Context bundles everything a solve needs across its recursive calls: the
// shared transposition table, an optional book, an accumulating work
// count and the history heuristic table. It is created per top-level
// solve and discarded on return; apart from the shared table, nothing in
// it outlives a single Solve call.
type Context struct {
	TT        *tt.Table
	Book      BookProber
	BookDepth int // book entries are only consulted at or below this ply
	WorkCount uint64
	History   *ordering.History
}

// NewContext builds a Context around an existing table, with no book
// attached (Engine.SetBook installs one).
func NewContext(table *tt.Table) *Context {
	return &Context{TT: table, History: &ordering.History{}}
}

// Solve runs a full MTD-style null-window binary search over the range of
// possible scores and returns the exact score of p from the side-to-move's
// perspective.
func Solve(ctx *Context, p position.Position) int {
	if p.IsDraw() {
		return 0
	}
	if p.HasImmediateWin() {
		total := position.Width * position.Height
		return (total + 1 - p.Ply()) / 2
	}

	lower, upper := -position.MaxScore, position.MaxScore
	for lower < upper {
		mid := lower + (upper-lower)/2
		if mid <= 0 && lower/2 < mid {
			mid = lower / 2
		} else if mid >= 0 && upper/2 > mid {
			mid = upper / 2
		}

		score := negamax(ctx, p, mid, mid+1)
		if score <= mid {
			upper = score
		} else {
			lower = score
		}
	}
	return lower
}

// negamax is the standard alpha-beta negamax over Positions, in the side
// to move's frame: draw and immediate-win cut-offs, a transposition table
// probe and store, an optional book probe, then a recursive search over
// non-losing moves in priority order.
func negamax(ctx *Context, p position.Position, alpha, beta int) int {
	ctx.WorkCount++

	if p.IsDraw() {
		return 0
	}

	// Never descend below a forced win.
	total := position.Width * position.Height
	ply := p.Ply()
	if p.HasImmediateWin() {
		return (total + 1 - ply) / 2
	}

	// Clamp beta to the best reachable score, now that an immediate win
	// has been excluded.
	max := (total - 1 - ply) / 2
	if max <= alpha {
		return max
	}
	if max < beta {
		beta = max
	}

	key := p.CanonicalKey()
	if score, bound, hit := ctx.TT.Probe(key); hit {
		switch bound {
		case tt.Exact:
			return score
		case tt.Lower:
			if score > alpha {
				alpha = score
			}
		case tt.Upper:
			if score < beta {
				beta = score
			}
		}
		if alpha >= beta {
			return alpha
		}
	}

	// The book only covers shallow positions; deeper ones fall through to
	// the recursive search below.
	if ctx.Book != nil && ply <= ctx.BookDepth {
		if score, hit := ctx.Book.Lookup(key); hit {
			return score
		}
	}

	moves := ordering.Candidates(p, ctx.History)
	if len(moves) == 0 {
		return -(total - ply) / 2
	}

	best := alpha
	for _, col := range moves {
		child := p.Drop(col)
		score := -negamax(ctx, child, -beta, -best)
		if score >= beta {
			ctx.TT.Store(key, score, tt.Lower)
			ctx.History.Bump(col, total-ply)
			return score
		}
		if score > best {
			best = score
		}
	}

	// No move reached beta: the true score is at most best. Store an
	// upper bound and return it. (Because Solve only ever calls negamax
	// with null windows, beta == alpha+1, this is the only outcome left
	// once the loop exits without an early beta return.)
	ctx.TT.Store(key, best, tt.Upper)
	return best
}
