package variantset

import (
	"strings"

	"github.com/inodb/vcfindex/internal/vcf"
)

// SeparatedFilter tags records produced by splitting a multi-base record.
const SeparatedFilter = "separated"

// SeparatedHeader declares SeparatedFilter.
const SeparatedHeader = `##FILTER=<ID=separated,Description="Variant obtained by splitting a complex variant into multiple positions">`

// SplitRecord splits a record describing adjacent substitutions, such as
// ref AT alt TG, into one record per varying position. It returns false
// when no split applies: the reference is a single base, or an alternate
// allele differs in length from the reference.
//
// Offsets where every alternate allele equals the reference are dropped.
// Every other field is copied, and SeparatedFilter is added to the filter.
func SplitRecord(r *vcf.Record) ([]*vcf.Record, bool) {
	ref := r.Ref
	if len(ref) <= 1 {
		return nil, false
	}
	alts := r.Alts()
	for _, alt := range alts {
		if len(alt) != len(ref) {
			return nil, false
		}
	}

	out := make([]*vcf.Record, 0, len(ref))
	var sb strings.Builder
	for i := 0; i < len(ref); i++ {
		sb.Reset()
		varies := false
		for j, alt := range alts {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte(alt[i])
			if alt[i] != ref[i] {
				varies = true
			}
		}
		if !varies {
			continue
		}

		nr := r.Clone()
		nr.Pos = r.Pos + i
		nr.Ref = ref[i : i+1]
		nr.Alt = sb.String()
		nr.AddFilter(SeparatedFilter)
		out = append(out, nr)
	}
	return out, true
}

// Decompose replaces every splittable record with its per-position records
// and sorts the result. It returns the number of records that were split.
// If any were, SeparatedHeader is added to the header.
//
// Trackers over s reset their cursor on their next query.
func (s *Set) Decompose() int {
	split := 0
	out := make([]*vcf.Record, 0, len(s.records)+len(s.records)/2)
	for _, r := range s.records {
		parts, ok := SplitRecord(r)
		if !ok {
			out = append(out, r)
			continue
		}
		split++
		out = append(out, parts...)
	}

	if split == 0 {
		return 0
	}

	s.records = out
	s.sort()
	s.generation++
	s.AddHeaderLine(SeparatedHeader)
	return split
}
