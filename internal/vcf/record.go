// Package vcf provides VCF record parsing and serialization.
package vcf

import (
	"strconv"
	"strings"

	"github.com/inodb/vcfindex/internal/genome"
)

// Record is a single VCF data line with its chromosome resolved to a
// genome index. Only one sample column is interpreted; additional sample
// columns are carried in Genotype unchanged.
//
// Chrom and Pos must not be changed while the record is held by a sorted
// collection.
type Record struct {
	Chrom    int    // Chromosome index (genome.Unresolved if unknown)
	Pos      int    // 1-based genomic position
	ID       string // Variant identifier (e.g., rs ID)
	Ref      string // Reference allele
	Alt      string // Alternate alleles, comma separated
	Qual     string // Quality, kept as text
	Filter   string // Filter status (PASS, ".", or semicolon-separated names)
	Info     string // INFO column, kept as text
	Format   string // FORMAT column, empty for 8-column records
	Genotype string // Sample column(s), empty for 8-column records
}

// NewRecord returns a record with the VCF placeholder defaults.
func NewRecord() *Record {
	return &Record{Chrom: genome.Unresolved, Pos: 1, ID: ".", Filter: ".", Info: "."}
}

// Locus returns the record's coordinate.
func (r *Record) Locus() genome.Locus {
	return genome.Locus{Chrom: r.Chrom, Pos: r.Pos}
}

// Clone returns a copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// Alts returns the alternate alleles.
func (r *Record) Alts() []string {
	return strings.Split(r.Alt, ",")
}

// IsMultiBase returns true if the reference or any alternate allele spans
// more than one base. This covers both insertions/deletions and adjacent
// substitutions written as one record.
func (r *Record) IsMultiBase() bool {
	return IsMultiBase(r.Ref, r.Alt)
}

// IsMultiBase classifies a ref/alt pair; both may be comma-joined lists.
func IsMultiBase(ref, alt string) bool {
	for _, allele := range strings.Split(ref, ",") {
		if len(allele) > 1 {
			return true
		}
	}
	for _, allele := range strings.Split(alt, ",") {
		if len(allele) > 1 {
			return true
		}
	}
	return false
}

// HasSample returns true if the record carries FORMAT and sample columns.
func (r *Record) HasSample() bool {
	return r.Format != "" && r.Genotype != ""
}

// AddFilter adds a filter name. A placeholder filter is replaced; an
// existing name is not added twice.
func (r *Record) AddFilter(name string) {
	if r.Filter == "" || r.Filter == "." {
		r.Filter = name
		return
	}
	for _, f := range strings.Split(r.Filter, ";") {
		if f == name {
			return
		}
	}
	r.Filter += ";" + name
}

// String renders the record as a newline-terminated VCF line, naming the
// chromosome through g. FORMAT and sample columns are written only when
// both are present.
func (r *Record) String(g *genome.Info) string {
	chrom, ok := g.NameAt(r.Chrom)
	if !ok {
		chrom = "."
	}

	var sb strings.Builder
	sb.Grow(len(chrom) + len(r.ID) + len(r.Ref) + len(r.Alt) + len(r.Qual) +
		len(r.Filter) + len(r.Info) + len(r.Format) + len(r.Genotype) + 24)

	sb.WriteString(chrom)
	sb.WriteByte('\t')
	sb.WriteString(strconv.Itoa(r.Pos))
	for _, col := range [...]string{r.ID, r.Ref, r.Alt, r.Qual, r.Filter, r.Info} {
		sb.WriteByte('\t')
		sb.WriteString(col)
	}
	if r.HasSample() {
		sb.WriteByte('\t')
		sb.WriteString(r.Format)
		sb.WriteByte('\t')
		sb.WriteString(r.Genotype)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ParseRecord parses a tab-separated VCF data line with 8 or at least 10
// columns. Line numbers in the returned *ParseError are left at zero;
// Parser fills them in.
func ParseRecord(line string, g *genome.Info) (*Record, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Message: "expected at least 8 columns, found " + strconv.Itoa(len(fields)),
		}
	}
	if len(fields) == 9 {
		return nil, &ParseError{Message: "FORMAT column without a sample column"}
	}

	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, &ParseError{Message: "invalid position: " + fields[1]}
	}

	r := &Record{
		Chrom:  g.IndexOf(fields[0]),
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Qual:   fields[5],
		Filter: fields[6],
		Info:   fields[7],
	}

	if len(fields) > 8 {
		r.Format = fields[8]
		r.Genotype = strings.Join(fields[9:], "\t")
	}

	return r, nil
}
