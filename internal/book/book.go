// Package book implements a persistent opening book: a flat mapping from
// canonical position key to game-theoretic score, generated by exhaustive
// breadth-first enumeration and consulted by Search as an O(1) shortcut
// near the root.
package book

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/oliverans/fourengine/internal/position"
)

// base62Alphabet is used, most-significant digit first, to encode a
// canonical key's 49 meaningful bits on disk.
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// keyWidth is the fixed field width every encoded key is padded to, so
// book lines remain lexicographically comparable.
const keyWidth = 11 // ceil(log62(2^49)) = 9, padded generously for headroom

// ErrBookFormat reports a malformed book line. The wrapped error carries
// the 1-based line number.
var ErrBookFormat = errors.New("fourengine: malformed book line")

// FormatError names the offending line for a precise diagnostic.
type FormatError struct {
	Line int
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("fourengine: malformed book line %d: %q", e.Line, e.Text)
}

func (e *FormatError) Unwrap() error { return ErrBookFormat }

// Book is a read-only, in-memory mapping from canonical key to score, once
// loaded.
type Book struct {
	entries map[uint64]int
}

// New returns an empty book, to be filled with Put.
func New() *Book {
	return &Book{entries: make(map[uint64]int)}
}

// Len reports the number of entries currently loaded.
func (b *Book) Len() int { return len(b.entries) }

// Lookup performs a direct hash lookup with no fallback: a miss at any
// ply, including one within the book's generated depth, always means
// "descend".
func (b *Book) Lookup(key uint64) (score int, hit bool) {
	score, hit = b.entries[key]
	return score, hit
}

// Put inserts or overwrites a single entry.
func (b *Book) Put(key uint64, score int) { b.entries[key] = score }

// EncodeKey renders a canonical key as a fixed-width base-62 field.
func EncodeKey(key uint64) string {
	if key == 0 {
		return strings.Repeat("0", keyWidth)
	}
	var digits [keyWidth]byte
	for i := keyWidth - 1; i >= 0; i-- {
		digits[i] = base62Alphabet[key%62]
		key /= 62
	}
	return string(digits[:])
}

// DecodeKey parses a fixed-width base-62 field back into a canonical key.
func DecodeKey(field string) (uint64, error) {
	var key uint64
	for _, c := range field {
		idx := strings.IndexRune(base62Alphabet, c)
		if idx < 0 {
			return 0, fmt.Errorf("invalid base-62 digit %q", c)
		}
		key = key*62 + uint64(idx)
	}
	return key, nil
}

// Load reads a book from r: line-oriented ASCII, `#`-prefixed comment
// lines skipped, every other non-empty line holding "<base62-key>
// <signed-score>" separated by whitespace. A malformed line aborts the
// load with a *FormatError* naming the line number.
func Load(r io.Reader) (*Book, error) {
	b := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 2 {
			return nil, &FormatError{Line: lineNo, Text: line}
		}
		key, err := DecodeKey(fields[0])
		if err != nil {
			return nil, &FormatError{Line: lineNo, Text: line}
		}
		score, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &FormatError{Line: lineNo, Text: line}
		}
		b.entries[key] = score
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fourengine: reading book: %w", err)
	}
	log.Debug().Int("entries", len(b.entries)).Msg("book loaded")
	return b, nil
}

// Solver is the narrow interface generation needs from the search Engine:
// solve a position to its exact score without consulting any book.
type Solver interface {
	SolvePosition(p position.Position) (score int, workCount uint64)
}

// Generate enumerates every reachable position at exactly the given ply by
// breadth-first search from the empty board, deduplicated by canonical
// key, solves each with solver and writes one line per position to w. It
// skips positions where the previous player already won, since those are
// not legal search roots.
func Generate(w io.Writer, ply int, solver Solver) (int, error) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintf(bw, "# ply=%d\n", ply)

	frontier := []position.Position{position.New()}
	seen := map[uint64]bool{}
	written := 0

	for depth := 0; depth < ply; depth++ {
		next := make([]position.Position, 0, len(frontier)*position.Width)
		for _, p := range frontier {
			for col := 0; col < position.Width; col++ {
				if !p.CanDrop(col) {
					continue
				}
				child := p.Drop(col)
				if child.HasWon() {
					// The previous player already won; not a legal
					// search root, so it is excluded from enumeration.
					continue
				}
				next = append(next, child)
			}
		}
		frontier = lo.UniqBy(next, func(p position.Position) uint64 {
			return p.CanonicalKey()
		})
	}

	for _, p := range frontier {
		key := p.CanonicalKey()
		if seen[key] {
			continue
		}
		seen[key] = true

		score, _ := solver.SolvePosition(p)
		if _, err := fmt.Fprintf(bw, "%s %d\n", EncodeKey(key), score); err != nil {
			return written, fmt.Errorf("fourengine: writing book entry: %w", err)
		}
		written++
		if written%1000 == 0 {
			log.Debug().Int("written", written).Int("ply", ply).Msg("book generation progress")
		}
	}

	log.Info().Int("ply", ply).Int("entries", written).Msg("book generation complete")
	return written, nil
}
