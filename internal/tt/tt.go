// Package tt implements a fixed-size, direct-mapped transposition table:
// one 64-bit word per slot, packing a partial key fingerprint, a signed
// score and a two-bit bound flag, with an always-replace collision
// policy.
package tt

import "github.com/oliverans/fourengine/internal/position"

// Bound describes what an entry's stored score actually proves.
type Bound uint8

const (
	// Exact means the stored score is the position's true game-theoretic
	// value.
	Exact Bound = iota
	// Lower means the true score is at least the stored value (the
	// search failed high against beta).
	Lower
	// Upper means the true score is at most the stored value (the
	// search failed low against alpha).
	Upper
)

// DefaultSize is 2^23 entries (~64 MiB at 8 bytes/entry).
const DefaultSize = 1 << 23

// Each slot is a single packed uint64 word, laid out from the high bit
// down: a used flag, a 7-bit biased score, a 2-bit bound, and the low 54
// bits of the canonical key as the collision-detecting fingerprint.
// Canonical keys (current + mask + bottom-row-ones over 49 playable bits)
// never exceed roughly 51 significant bits, so 54 bits of fingerprint
// carries the whole key with room to spare, including the low bits that
// also select the slot, rather than only the key's high bits.
const (
	usedShift       = 63
	scoreShift      = 56
	scoreBits       = 7
	scoreMask       = uint64(1)<<scoreBits - 1
	scoreBias       = 64 // biases score range [-64,63] to an unsigned [0,127]
	boundShift      = 54
	boundBits       = 2
	boundMask       = uint64(1)<<boundBits - 1
	fingerprintBits = 54
	fingerprintMask = uint64(1)<<fingerprintBits - 1
)

// Table is a flat, power-of-two-sized, direct-mapped transposition table.
// It is not safe for concurrent use; the search core is single-threaded.
type Table struct {
	entries []uint64
	mask    uint64 // size-1, since size is a power of two
}

// New allocates a table of the given size, rounded up internally to the
// next power of two. size must be positive.
func New(size int) *Table {
	n := nextPowerOfTwo(size)
	return &Table{
		entries: make([]uint64, n),
		mask:    uint64(n - 1),
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Len reports the number of slots in the table.
func (t *Table) Len() int { return len(t.entries) }

// index maps a canonical key onto a slot; the low bits of the key select
// the index, and the fingerprint stored in the slot holds the whole key,
// so a different key landing in the same slot is never mistaken for it.
func (t *Table) index(key uint64) uint64 { return key & t.mask }

// Probe looks up key. hit is false if the slot is empty or holds a
// different key (an "always replace" table has no way to remember more
// than one entry per slot, so this is a true miss, not a collision
// report). When hit is true, score and bound describe what the earlier
// search proved about this position.
func (t *Table) Probe(key uint64) (score int, bound Bound, hit bool) {
	word := t.entries[t.index(key)]
	if word == 0 {
		return 0, 0, false
	}
	if word&fingerprintMask != key&fingerprintMask {
		return 0, 0, false
	}
	biased := (word >> scoreShift) & scoreMask
	bound = Bound((word >> boundShift) & boundMask)
	return int(biased) - scoreBias, bound, true
}

// Store overwrites the slot for key unconditionally (always-replace).
// score must fit in [-64,63]; the search never produces a value outside
// [-position.MaxScore, position.MaxScore].
func (t *Table) Store(key uint64, score int, bound Bound) {
	biased := uint64(clamp(score) + scoreBias)
	word := uint64(1)<<usedShift |
		biased<<scoreShift |
		uint64(bound)<<boundShift |
		(key & fingerprintMask)
	t.entries[t.index(key)] = word
}

func clamp(score int) int {
	if score > position.MaxScore {
		return position.MaxScore
	}
	if score < -position.MaxScore {
		return -position.MaxScore
	}
	return score
}

// Reset clears every slot without reallocating, letting an Engine reuse
// the table's backing storage across unrelated solves.
func (t *Table) Reset() {
	for i := range t.entries {
		t.entries[i] = 0
	}
}
