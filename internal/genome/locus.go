package genome

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedLocus is returned for locus shorthand that is not "chrom:pos".
var ErrMalformedLocus = errors.New("malformed locus")

// Locus is a genomic coordinate: a chromosome index and a 1-based position.
type Locus struct {
	Chrom int
	Pos   int
}

// HasLocus is implemented by anything that sits at a genomic coordinate.
type HasLocus interface {
	Locus() Locus
}

// Locus returns l itself, so a bare Locus can be used as a query.
func (l Locus) Locus() Locus {
	return l
}

// NewLocus resolves a chromosome name against g.
func NewLocus(chrom string, pos int, g *Info) Locus {
	return Locus{Chrom: g.IndexOf(chrom), Pos: pos}
}

// ParseLocus parses shorthand such as "chr5:2039".
func ParseLocus(s string, g *Info) (Locus, error) {
	chrom, posStr, ok := strings.Cut(s, ":")
	if !ok || chrom == "" {
		return Locus{}, fmt.Errorf("%w: %q", ErrMalformedLocus, s)
	}
	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return Locus{}, fmt.Errorf("%w: %q: invalid position", ErrMalformedLocus, s)
	}
	return NewLocus(chrom, pos, g), nil
}

// String renders the locus with its raw index, e.g. "[2]:1500".
func (l Locus) String() string {
	return "[" + strconv.Itoa(l.Chrom) + "]:" + strconv.Itoa(l.Pos)
}

// Format renders the locus with its chromosome name, e.g. "chr3:1500".
// Unresolved indices render as ".".
func (l Locus) Format(g *Info) string {
	name, ok := g.NameAt(l.Chrom)
	if !ok {
		name = "."
	}
	return name + ":" + strconv.Itoa(l.Pos)
}

// Compare orders loci by chromosome index, then position.
// An Unresolved chromosome sorts before every known chromosome; two
// Unresolved loci compare equal regardless of position.
func Compare(a, b Locus) int {
	if a.Chrom == Unresolved || b.Chrom == Unresolved {
		switch {
		case a.Chrom == b.Chrom:
			return 0
		case a.Chrom == Unresolved:
			return -1
		default:
			return 1
		}
	}
	switch {
	case a.Chrom < b.Chrom:
		return -1
	case a.Chrom > b.Chrom:
		return 1
	case a.Pos < b.Pos:
		return -1
	case a.Pos > b.Pos:
		return 1
	}
	return 0
}

// Less reports whether a sorts strictly before b.
func Less(a, b Locus) bool {
	return Compare(a, b) < 0
}
