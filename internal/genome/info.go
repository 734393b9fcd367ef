// Package genome describes reference genomes: chromosome names, lengths, and
// the dense chromosome indices that define genome order.
package genome

import (
	"fmt"
)

// Unresolved is the chromosome index of a name not present in an Info.
const Unresolved = -1

// MismatchError is returned when chromosome names and lengths do not pair up.
type MismatchError struct {
	Names   int
	Lengths int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("genome: %d chromosome names but %d lengths", e.Names, e.Lengths)
}

// Info holds chromosome names and lengths in caller order.
// It is read-only after construction and safe for concurrent use.
type Info struct {
	names   []string
	lengths []int
	index   map[string]int
}

// NewInfo creates an Info from parallel name and length slices.
// Index i is assigned to names[i].
func NewInfo(names []string, lengths []int) (*Info, error) {
	if len(names) != len(lengths) {
		return nil, &MismatchError{Names: len(names), Lengths: len(lengths)}
	}

	g := &Info{
		names:   make([]string, len(names)),
		lengths: make([]int, len(lengths)),
		index:   make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, dup := g.index[name]; dup {
			return nil, fmt.Errorf("genome: duplicate chromosome %q", name)
		}
		g.index[name] = i
		g.names[i] = name
		g.lengths[i] = lengths[i]
	}
	return g, nil
}

// Count returns the number of chromosomes.
func (g *Info) Count() int {
	return len(g.names)
}

// IndexOf returns the index of a chromosome, or Unresolved if unknown.
func (g *Info) IndexOf(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	return Unresolved
}

// Contains reports whether the chromosome is defined.
func (g *Info) Contains(name string) bool {
	_, ok := g.index[name]
	return ok
}

// NameAt returns the name of the chromosome at index i.
func (g *Info) NameAt(i int) (string, bool) {
	if i < 0 || i >= len(g.names) {
		return "", false
	}
	return g.names[i], true
}

// LengthAt returns the length of the chromosome at index i, or -1 if out of range.
func (g *Info) LengthAt(i int) int {
	if i < 0 || i >= len(g.lengths) {
		return -1
	}
	return g.lengths[i]
}

// LengthOf returns the length of a named chromosome, or -1 if unknown.
func (g *Info) LengthOf(name string) int {
	return g.LengthAt(g.IndexOf(name))
}

// Names returns a copy of the chromosome names in index order.
func (g *Info) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}
