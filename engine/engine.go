// Package engine is the public facade over the Connect-4 solver core: it
// owns the transposition table and an optional opening book, drives
// Search, and reports a Solution with timing and work-count statistics.
package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/oliverans/fourengine/internal/book"
	"github.com/oliverans/fourengine/internal/position"
	"github.com/oliverans/fourengine/internal/search"
	"github.com/oliverans/fourengine/internal/tt"
)

// Solution is the public result of a solve: the game-theoretic score from
// the side-to-move's perspective, the number of internal search calls
// performed, and how long the solve took.
type Solution struct {
	Score           int
	WorkCount       uint64
	DurationSeconds float64
}

// NPS is the derived nodes-per-second display metric.
func (s Solution) NPS() float64 {
	if s.DurationSeconds <= 0 {
		return 0
	}
	return float64(s.WorkCount) / s.DurationSeconds
}

// Engine is reusable across solves: its transposition table retains
// entries between related positions.
type Engine struct {
	table     *tt.Table
	book      *book.Book
	bookDepth int
	workCount uint64
}

// New allocates a transposition table of tt.DefaultSize and returns an
// Engine with no book attached.
func New() *Engine {
	return &Engine{table: tt.New(tt.DefaultSize)}
}

// NewWithTableSize is New with an explicit table size, for callers (the
// CLI's --tt-size flag) that need to trade memory for reach.
func NewWithTableSize(size int) *Engine {
	return &Engine{table: tt.New(size)}
}

// SetBook installs a loaded book, consulted by Search at or below
// bookDepth ply. Passing a nil book disables it.
func (e *Engine) SetBook(b *book.Book, bookDepth int) {
	e.book = b
	e.bookDepth = bookDepth
	if b != nil {
		log.Debug().Int("entries", b.Len()).Int("bookDepth", bookDepth).Msg("book attached to engine")
	}
}

// WorkCount reports the number of internal search calls performed by the
// most recent Solve or SolveVariation call.
func (e *Engine) WorkCount() uint64 { return e.workCount }

// SolveVariation parses variation and solves the resulting position; it
// surfaces position.FromVariation's *InvalidVariationError and
// *AlreadyWonError unchanged.
func (e *Engine) SolveVariation(variation string) (Solution, error) {
	p, err := position.FromVariation(variation)
	if err != nil {
		return Solution{}, err
	}
	return e.Solve(p), nil
}

// Solve runs the MTD-style null-window driver on p and returns its exact
// score plus statistics. The transposition table persists across calls;
// only the work count is reset.
func (e *Engine) Solve(p position.Position) Solution {
	start := time.Now()
	score, work := e.solve(p)
	elapsed := time.Since(start)
	e.workCount = work
	return Solution{
		Score:           score,
		WorkCount:       work,
		DurationSeconds: elapsed.Seconds(),
	}
}

func (e *Engine) solve(p position.Position) (score int, workCount uint64) {
	ctx := search.NewContext(e.table)
	if e.book != nil {
		ctx.Book = e.book
		ctx.BookDepth = e.bookDepth
	}
	score = search.Solve(ctx, p)
	return score, ctx.WorkCount
}

// SolvePosition implements book.Solver so book.Generate can drive this
// Engine directly: it deliberately does NOT consult e.book, since book
// generation must resolve every position from a clean search, using the
// transposition table but nothing from a book still being built.
func (e *Engine) SolvePosition(p position.Position) (score int, workCount uint64) {
	ctx := search.NewContext(e.table)
	score = search.Solve(ctx, p)
	return score, ctx.WorkCount
}

// ResetTable discards every transposition table entry, for callers that
// want deterministic, TT-cold benchmarking.
func (e *Engine) ResetTable() { e.table.Reset() }
