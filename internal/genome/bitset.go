package genome

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// BitSet holds one flag per position for every chromosome of an Info.
// Bit vectors are kept in a slice indexed by chromosome index. Positions are
// 0-based, as in BED.
type BitSet struct {
	chroms []*bitset.BitSet
}

// NewBitSet allocates a cleared bit vector for every chromosome in g.
func NewBitSet(g *Info) *BitSet {
	b := &BitSet{chroms: make([]*bitset.BitSet, g.Count())}
	for i := range b.chroms {
		b.chroms[i] = bitset.New(uint(max(g.LengthAt(i), 0)))
	}
	return b
}

func (b *BitSet) chrom(i int) *bitset.BitSet {
	if i < 0 || i >= len(b.chroms) {
		return nil
	}
	return b.chroms[i]
}

// Set flags positions [start, end) on a chromosome. Unknown chromosomes and
// empty intervals are ignored; positions past the chromosome end are dropped.
func (b *BitSet) Set(chrom, start, end int) {
	bs := b.chrom(chrom)
	if bs == nil || end <= start {
		return
	}
	start, end = max(start, 0), min(end, int(bs.Len()))
	for i := start; i < end; i++ {
		bs.Set(uint(i))
	}
}

// ClearRange unflags positions [start, end).
func (b *BitSet) ClearRange(chrom, start, end int) {
	bs := b.chrom(chrom)
	if bs == nil || end <= start {
		return
	}
	start, end = max(start, 0), min(end, int(bs.Len()))
	for i := start; i < end; i++ {
		bs.Clear(uint(i))
	}
}

// Clear unflags a whole chromosome.
func (b *BitSet) Clear(chrom int) {
	if bs := b.chrom(chrom); bs != nil {
		bs.ClearAll()
	}
}

// Test reports whether a position is flagged.
func (b *BitSet) Test(chrom, pos int) bool {
	bs := b.chrom(chrom)
	if bs == nil || pos < 0 {
		return false
	}
	return bs.Test(uint(pos))
}

// Count returns the number of flagged positions in [start, end).
func (b *BitSet) Count(chrom, start, end int) int {
	bs := b.chrom(chrom)
	if bs == nil || end <= start {
		return 0
	}
	n := 0
	for i, ok := bs.NextSet(uint(max(start, 0))); ok && i < uint(end); i, ok = bs.NextSet(i + 1) {
		n++
	}
	return n
}

// ReadBED flags every interval of a BED stream. Intervals on chromosomes that
// g does not define are skipped. Track, browser, and comment lines are ignored.
func (b *BitSet) ReadBED(r io.Reader, g *Info) error {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return fmt.Errorf("bed line %d: expected at least 3 columns, found %d", lineNumber, len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bed line %d: invalid start: %s", lineNumber, fields[1])
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("bed line %d: invalid end: %s", lineNumber, fields[2])
		}
		b.Set(g.IndexOf(fields[0]), start, end)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan bed: %w", err)
	}
	return nil
}
