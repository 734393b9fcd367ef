package variantset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/vcf"
)

func TestTracker_Empty(t *testing.T) {
	tr := NewTracker(New(nil, testGenome(t), false))
	assert.Equal(t, NotFound(0), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 5}))
	assert.False(t, tr.Contains(genome.Locus{Chrom: 0, Pos: 5}))
	assert.Nil(t, tr.GetAtLocus(genome.Locus{Chrom: 0, Pos: 5}))
}

func TestTracker_SequentialScan(t *testing.T) {
	records := make([]*vcf.Record, 0, 100)
	for pos := 10; pos <= 1000; pos += 10 {
		records = append(records, snv(0, pos))
	}
	s := New(records, testGenome(t), false)
	tr := NewTracker(s)

	for i, r := range s.records {
		res := tr.IndexOf(r)
		require.Equal(t, Found(i), res)
		assert.Equal(t, i, tr.last, "cursor follows the scan")
	}

	// A miss between two records leaves the cursor at the insertion point.
	res := tr.IndexOf(genome.Locus{Chrom: 0, Pos: 55})
	assert.Equal(t, NotFound(5), res)
	assert.Equal(t, 5, tr.last)

	// A miss past the end clamps the cursor to the last record.
	res = tr.IndexOf(genome.Locus{Chrom: 2, Pos: 1})
	assert.Equal(t, NotFound(100), res)
	assert.Equal(t, 99, tr.last)
}

func TestTracker_LinearStepsBound(t *testing.T) {
	records := make([]*vcf.Record, 0, 50)
	for pos := 1; pos <= 50; pos++ {
		records = append(records, snv(0, pos))
	}
	s := New(records, testGenome(t), false)

	tr := NewTracker(s)
	tr.SetMaxLinearSteps(0)
	assert.Equal(t, Found(40), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 41}))
	assert.Equal(t, 40, tr.last)

	tr.SetMaxLinearSteps(-3)
	assert.Equal(t, Found(0), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 1}))
	assert.Equal(t, Found(1), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 2}))
}

func TestTracker_DirectionChangeFallsBack(t *testing.T) {
	s := New([]*vcf.Record{snv(0, 10), snv(0, 20), snv(0, 30), snv(0, 40)}, testGenome(t), false)
	tr := NewTracker(s)

	// Walking forward from 10 overshoots 25 at 30; the reversal ends the walk.
	res := tr.IndexOf(genome.Locus{Chrom: 0, Pos: 25})
	assert.Equal(t, NotFound(2), res)
	assert.Equal(t, 2, tr.last)
}

func TestTracker_Duplicates(t *testing.T) {
	s := New([]*vcf.Record{snv(0, 1), snv(0, 5), snv(0, 5), snv(0, 5), snv(0, 9)}, testGenome(t), false)
	tr := NewTracker(s)

	tr.last = 3
	assert.Equal(t, Found(1), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 5}))
	assert.Equal(t, 1, tr.last)
}

func TestTracker_ResetAfterDecompose(t *testing.T) {
	s := New([]*vcf.Record{
		snv(0, 1),
		{Chrom: 0, Pos: 10, Ref: "AAAA", Alt: "CCCC", Filter: "."},
		snv(0, 50),
	}, testGenome(t), true)
	tr := NewTracker(s)

	require.Equal(t, Found(2), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 50}))
	require.Equal(t, 1, s.Decompose())

	assert.Equal(t, Found(5), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 50}))
	assert.Equal(t, Found(3), tr.IndexOf(genome.Locus{Chrom: 0, Pos: 12}))
}

func TestTracker_Reset(t *testing.T) {
	s := New([]*vcf.Record{snv(0, 1), snv(0, 2), snv(0, 3)}, testGenome(t), false)
	tr := NewTracker(s)
	tr.IndexOf(genome.Locus{Chrom: 0, Pos: 3})
	require.Equal(t, 2, tr.last)

	tr.Reset()
	assert.Equal(t, 0, tr.last)
	assert.Same(t, s, tr.Set())
}

func TestTracker_AgreesWithSet(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))

	for round := 0; round < 40; round++ {
		s := randomSet(t, rng, 1+rng.Intn(300), 500, round%2 == 0)
		if round%3 == 0 {
			// Add duplicate loci.
			dups := make([]*vcf.Record, 0, s.Size()*2)
			for _, r := range s.records {
				dups = append(dups, r)
				if rng.Intn(4) == 0 {
					dups = append(dups, r.Clone())
				}
			}
			s = New(dups, testGenome(t), false)
		}

		tr := NewTracker(s)
		tr.SetMaxLinearSteps(rng.Intn(6))

		queries := make([]genome.Locus, 0, 600)

		// Sequential walk with small jitter.
		chrom, pos := 0, 0
		for i := 0; i < 300; i++ {
			pos += rng.Intn(6) - 1
			if rng.Intn(80) == 0 {
				chrom = (chrom + 1) % 3
				pos = 0
			}
			queries = append(queries, genome.Locus{Chrom: chrom, Pos: pos})
		}
		// Scattered queries, including unresolved chromosomes.
		for i := 0; i < 300; i++ {
			queries = append(queries, genome.Locus{Chrom: rng.Intn(5) - 1, Pos: rng.Intn(520)})
		}
		// Queries taken from the stored records themselves.
		for i := 0; i < 100; i++ {
			r, _ := s.Get(rng.Intn(s.Size()))
			queries = append(queries, r.Locus())
		}

		for _, q := range queries {
			want := s.IndexOf(q)
			got := tr.IndexOf(q)
			require.Equal(t, want, got, "round %d query %v", round, q)
			require.GreaterOrEqual(t, tr.last, 0)
			require.Less(t, tr.last, s.Size())
		}
	}
}
