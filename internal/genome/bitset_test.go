package genome

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSet_SetTestCount(t *testing.T) {
	g := testInfo(t)
	b := NewBitSet(g)

	b.Set(0, 10, 20)
	assert.False(t, b.Test(0, 9))
	assert.True(t, b.Test(0, 10))
	assert.True(t, b.Test(0, 19))
	assert.False(t, b.Test(0, 20), "end is exclusive")
	assert.False(t, b.Test(1, 15), "other chromosomes untouched")

	assert.Equal(t, 10, b.Count(0, 0, 1000))
	assert.Equal(t, 5, b.Count(0, 15, 25))
	assert.Equal(t, 0, b.Count(0, 20, 10))

	b.ClearRange(0, 12, 14)
	assert.Equal(t, 8, b.Count(0, 0, 1000))

	b.Clear(0)
	assert.Equal(t, 0, b.Count(0, 0, 1000))
}

func TestBitSet_UnknownChromosome(t *testing.T) {
	b := NewBitSet(testInfo(t))

	b.Set(Unresolved, 0, 10)
	b.Set(99, 0, 10)
	assert.False(t, b.Test(Unresolved, 5))
	assert.False(t, b.Test(99, 5))
	assert.Equal(t, 0, b.Count(99, 0, 10))
}

func TestBitSet_ReadBED(t *testing.T) {
	g := testInfo(t)
	b := NewBitSet(g)

	bed := "track name=mask\n# comment\nchr1\t0\t5\nchr2\t100\t102\textra\nchrUn\t0\t10\n"
	require.NoError(t, b.ReadBED(strings.NewReader(bed), g))

	assert.Equal(t, 5, b.Count(0, 0, 1000))
	assert.True(t, b.Test(1, 101))
	assert.False(t, b.Test(1, 102))

	err := b.ReadBED(strings.NewReader("chr1\t5\n"), g)
	assert.ErrorContains(t, err, "bed line 1")
}

func TestBitSet_ClampsToChromosomeLength(t *testing.T) {
	g := testInfo(t)
	b := NewBitSet(g)

	b.Set(0, 990, 1_000_000_000_000)
	assert.Equal(t, 10, b.Count(0, 0, 2000))
	assert.True(t, b.Test(0, 999))
	assert.False(t, b.Test(0, 1000))
	assert.Equal(t, uint(1000), b.chroms[0].Len(), "bit vector does not grow")

	b.ClearRange(0, 995, 1_000_000_000_000)
	assert.Equal(t, 5, b.Count(0, 0, 2000))
	assert.Equal(t, uint(1000), b.chroms[0].Len())

	require.NoError(t, b.ReadBED(strings.NewReader("chr2\t0\t1000000000000\n"), g))
	assert.Equal(t, 800, b.Count(1, 0, 1_000_000_000_000))
}
