// Package variantset holds VCF records sorted in genome order and answers
// point and interval queries over them.
package variantset

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/vcf"
)

// linearCountWidth is the interval width below which CountInInterval walks
// forward from the lower bound instead of running a second binary search.
const linearCountWidth = 256

// Set is an immutable, genome-ordered collection of VCF records.
// Read-only methods are safe for concurrent use. Decompose rebuilds the
// collection and must not run concurrently with anything else.
type Set struct {
	genome     *genome.Info
	records    []*vcf.Record
	header     []string
	columnLine string
	generation uint64
}

// New builds a Set from records already in memory. Records are copied;
// multi-base records are kept only if withMultiBase is set.
func New(records []*vcf.Record, g *genome.Info, withMultiBase bool) *Set {
	kept := make([]*vcf.Record, 0, len(records))
	for _, r := range records {
		if withMultiBase || !r.IsMultiBase() {
			kept = append(kept, r.Clone())
		}
	}
	s := &Set{genome: g, records: kept}
	s.sort()
	return s
}

func (s *Set) sort() {
	slices.SortFunc(s.records, func(a, b *vcf.Record) int {
		return genome.Compare(a.Locus(), b.Locus())
	})
}

// Genome returns the genome the set was built against.
func (s *Set) Genome() *genome.Info {
	return s.genome
}

// Size returns the number of records.
func (s *Set) Size() int {
	return len(s.records)
}

// Get returns the record at index i. The record is shared with the set;
// changing its Chrom or Pos breaks the ordering.
func (s *Set) Get(i int) (*vcf.Record, bool) {
	if i < 0 || i >= len(s.records) {
		return nil, false
	}
	return s.records[i], true
}

// Records returns a copy of the record slice in genome order.
func (s *Set) Records() []*vcf.Record {
	return slices.Clone(s.records)
}

// Generation increases every time the record collection is rebuilt.
func (s *Set) Generation() uint64 {
	return s.generation
}

// IndexOf locates a locus by binary search. When several records share
// the locus, the lowest index is reported.
func (s *Set) IndexOf(l genome.HasLocus) SearchResult {
	target := l.Locus()
	i := s.lowerBound(target, len(s.records))
	if i < len(s.records) && genome.Compare(s.records[i].Locus(), target) == 0 {
		return Found(i)
	}
	return NotFound(i)
}

// Contains reports whether any record sits at the locus.
func (s *Set) Contains(l genome.HasLocus) bool {
	return s.IndexOf(l).Found
}

// ContainsString is Contains for locus shorthand such as "chr5:2039".
func (s *Set) ContainsString(locus string) (bool, error) {
	l, err := genome.ParseLocus(locus, s.genome)
	if err != nil {
		return false, err
	}
	return s.Contains(l), nil
}

// GetAtLocus returns a copy of the record at the locus, or nil if there is
// none. When several records share a locus, the first in set order is used.
func (s *Set) GetAtLocus(l genome.HasLocus) *vcf.Record {
	res := s.IndexOf(l)
	if !res.Found {
		return nil
	}
	return s.records[res.Index].Clone()
}

// CountInInterval returns the number of records on chromosome chrom with
// start <= Pos <= end. An inverted interval counts zero.
func (s *Set) CountInInterval(chrom, start, end int) int {
	if end < start {
		return 0
	}
	if chrom < 0 {
		return s.countUnresolved(chrom, start, end)
	}

	lower := s.lowerBound(genome.Locus{Chrom: chrom, Pos: start}, len(s.records))

	upper := lower
	if uint(end)-uint(start) < linearCountWidth {
		// Short intervals: the upper bound is a few records away.
		last := genome.Locus{Chrom: chrom, Pos: end}
		for upper < len(s.records) && genome.Compare(s.records[upper].Locus(), last) <= 0 {
			upper++
		}
	} else {
		upper = s.upperBound(genome.Locus{Chrom: chrom, Pos: end})
	}
	return upper - lower
}

// countUnresolved scans the records with an unresolved chromosome. They all
// compare equal, so their positions are not ordered and cannot be searched.
func (s *Set) countUnresolved(chrom, start, end int) int {
	if chrom != genome.Unresolved {
		return 0
	}
	n := 0
	for _, r := range s.records {
		if r.Chrom != genome.Unresolved {
			break
		}
		if r.Pos >= start && r.Pos <= end {
			n++
		}
	}
	return n
}

// lowerBound returns the index of the first record in records[:hi] that
// does not sort before l.
func (s *Set) lowerBound(l genome.Locus, hi int) int {
	i, _ := slices.BinarySearchFunc(s.records[:hi], l, func(r *vcf.Record, t genome.Locus) int {
		return genome.Compare(r.Locus(), t)
	})
	return i
}

// upperBound returns the index of the first record that sorts after l.
func (s *Set) upperBound(l genome.Locus) int {
	i, _ := slices.BinarySearchFunc(s.records, l, func(r *vcf.Record, t genome.Locus) int {
		if genome.Compare(r.Locus(), t) <= 0 {
			return -1
		}
		return 1
	})
	return i
}

// CountInNamedInterval is CountInInterval with a chromosome name.
func (s *Set) CountInNamedInterval(chrom string, start, end int) int {
	if end < start {
		return 0
	}
	return s.CountInInterval(s.genome.IndexOf(chrom), start, end)
}

// Header returns the meta-information lines in insertion order.
func (s *Set) Header() []string {
	return slices.Clone(s.header)
}

// ColumnLine returns the #CHROM line, or "" if none was recorded.
func (s *Set) ColumnLine() string {
	return s.columnLine
}

// SetColumnLine replaces the #CHROM line.
func (s *Set) SetColumnLine(line string) {
	s.columnLine = strings.TrimRight(line, "\r\n")
}

// AddHeaderLine appends a meta-information line, normalizing it to start
// with "##". A line already present is not added again.
func (s *Set) AddHeaderLine(line string) {
	if !strings.HasPrefix(line, "##") {
		if strings.HasPrefix(line, "#") {
			line = "#" + line
		} else {
			line = "##" + line
		}
	}
	s.appendHeader(strings.TrimRight(line, "\r\n"))
}

// appendHeader appends a header line verbatim unless it is already present.
func (s *Set) appendHeader(line string) {
	if slices.Contains(s.header, line) {
		return
	}
	s.header = append(s.header, line)
}

// WriteTo writes the header, the column line, and every record as VCF.
func (s *Set) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := func(str string) error {
		n, err := io.WriteString(w, str)
		total += int64(n)
		return err
	}

	for _, line := range s.header {
		if err := write(line + "\n"); err != nil {
			return total, fmt.Errorf("write header: %w", err)
		}
	}
	if s.columnLine != "" {
		if err := write(s.columnLine + "\n"); err != nil {
			return total, fmt.Errorf("write column line: %w", err)
		}
	}
	for _, r := range s.records {
		if err := write(r.String(s.genome)); err != nil {
			return total, fmt.Errorf("write record: %w", err)
		}
	}
	return total, nil
}
