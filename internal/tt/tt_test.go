package tt

import "testing"

func TestProbeMissOnEmptyTable(t *testing.T) {
	table := New(1024)
	if _, _, hit := table.Probe(12345); hit {
		t.Fatalf("expected a miss on an empty table")
	}
}

func TestStoreThenProbeRoundTrip(t *testing.T) {
	table := New(1024)
	table.Store(42, 7, Exact)
	score, bound, hit := table.Probe(42)
	if !hit {
		t.Fatalf("expected a hit after Store")
	}
	if score != 7 || bound != Exact {
		t.Fatalf("got (score=%d, bound=%v), want (7, Exact)", score, bound)
	}
}

func TestAlwaysReplaceOverwritesPriorEntry(t *testing.T) {
	table := New(1) // a single slot: every key collides.
	table.Store(1, 5, Lower)
	table.Store(2, -3, Upper)
	// The second Store must have unconditionally replaced the first.
	if _, _, hit := table.Probe(1); hit {
		t.Fatalf("expected key 1 to have been evicted by always-replace")
	}
	score, bound, hit := table.Probe(2)
	if !hit || score != -3 || bound != Upper {
		t.Fatalf("got (hit=%v, score=%d, bound=%v), want (true, -3, Upper)", hit, score, bound)
	}
}

func TestSizeRoundsUpToPowerOfTwo(t *testing.T) {
	table := New(5)
	if table.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", table.Len())
	}
}

func TestResetClearsEntries(t *testing.T) {
	table := New(16)
	table.Store(3, 1, Exact)
	table.Reset()
	if _, _, hit := table.Probe(3); hit {
		t.Fatalf("expected Reset to clear all entries")
	}
}
