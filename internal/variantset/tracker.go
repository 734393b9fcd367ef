package variantset

import (
	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/vcf"
)

// DefaultMaxLinearSteps is the number of neighbouring records a Tracker
// inspects before falling back to binary search.
const DefaultMaxLinearSteps = 3

// Tracker searches a Set starting from the previous hit. Queries that move
// steadily along the genome resolve in a few comparisons; anything else
// costs one binary search.
//
// A Tracker holds per-scan state and is not safe for concurrent use. Create
// one Tracker per scan over the same Set.
type Tracker struct {
	set        *Set
	maxLinear  int
	last       int
	generation uint64
}

// NewTracker creates a tracker over s.
func NewTracker(s *Set) *Tracker {
	return &Tracker{
		set:        s,
		maxLinear:  DefaultMaxLinearSteps,
		generation: s.Generation(),
	}
}

// SetMaxLinearSteps configures how many single-record steps are tried
// before binary search. Negative values are treated as zero.
func (t *Tracker) SetMaxLinearSteps(n int) {
	t.maxLinear = max(n, 0)
}

// Set returns the tracked set.
func (t *Tracker) Set() *Set {
	return t.set
}

// Reset moves the cursor back to the first record.
func (t *Tracker) Reset() {
	t.last = 0
	t.generation = t.set.Generation()
}

// IndexOf locates a locus. The result is always the same as
// (*Set).IndexOf for the same locus.
func (t *Tracker) IndexOf(l genome.HasLocus) SearchResult {
	records := t.set.records
	n := len(records)
	if n == 0 {
		return NotFound(0)
	}
	if t.generation != t.set.Generation() || t.last >= n {
		t.Reset()
	}

	target := l.Locus()
	direction := 0
	for steps := 0; ; steps++ {
		c := genome.Compare(target, records[t.last].Locus())
		if c == 0 {
			return t.hit(target)
		}
		if steps == t.maxLinear {
			break
		}
		if c < 0 {
			if t.last == 0 || direction > 0 {
				break
			}
			t.last--
			direction = -1
		} else {
			if t.last == n-1 || direction < 0 {
				break
			}
			t.last++
			direction = 1
		}
	}

	res := t.set.IndexOf(target)
	t.last = min(res.Index, n-1)
	return res
}

// hit reports a match at the cursor, moving it to the first record of a
// run of duplicates.
func (t *Tracker) hit(target genome.Locus) SearchResult {
	if t.last > 0 && genome.Compare(t.set.records[t.last-1].Locus(), target) == 0 {
		t.last = t.set.lowerBound(target, t.last)
	}
	return Found(t.last)
}

// Contains reports whether any record sits at the locus.
func (t *Tracker) Contains(l genome.HasLocus) bool {
	return t.IndexOf(l).Found
}

// GetAtLocus returns a copy of the record at the locus, or nil.
func (t *Tracker) GetAtLocus(l genome.HasLocus) *vcf.Record {
	res := t.IndexOf(l)
	if !res.Found {
		return nil
	}
	return t.set.records[res.Index].Clone()
}
