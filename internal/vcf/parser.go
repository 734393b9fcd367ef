package vcf

import (
	"fmt"
	"io"
	"strings"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/xopen"
)

// ColumnLinePrefix starts the VCF column definition line.
const ColumnLinePrefix = "#CHROM"

// RecordSource is implemented by readers that produce VCF records.
type RecordSource interface {
	// Next reads the next record.
	// Returns nil, nil when there are no more records.
	Next() (*Record, error)

	// Header returns the meta-information lines read so far.
	Header() []string

	// ColumnLine returns the #CHROM line, or "" if the source had none.
	ColumnLine() string

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// Parser reads records from a VCF stream.
type Parser struct {
	in         *xopen.Reader
	genome     *genome.Info
	lineNumber int
	header     []string
	seen       map[string]bool
	columnLine string
	pending    string // first data line when the source has no #CHROM line
	hasPending bool
}

// NewParser creates a parser for the given file. Plain, gzip, and bzip2
// files are supported; "-" reads stdin.
func NewParser(path string, g *genome.Info) (*Parser, error) {
	in, err := xopen.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{in: in, genome: g}
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader, g *genome.Info) (*Parser, error) {
	in, err := xopen.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open vcf stream: %w", err)
	}

	p := &Parser{in: in, genome: g}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", err
		}
		if line == "" {
			return "", io.EOF
		}
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// parseHeader reads meta-information lines up to and including #CHROM.
// Sources without a #CHROM line are accepted; the first data line is kept
// for Next.
func (p *Parser) parseHeader() error {
	p.seen = make(map[string]bool)
	for {
		line, err := p.readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		if strings.HasPrefix(line, ColumnLinePrefix) {
			p.columnLine = line
			return nil
		}

		if strings.HasPrefix(line, "#") {
			if !p.seen[line] {
				p.seen[line] = true
				p.header = append(p.header, line)
			}
			continue
		}

		if line == "" {
			continue
		}
		p.pending = line
		p.hasPending = true
		return nil
	}
}

// Next reads the next record from the stream.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	for {
		var line string
		if p.hasPending {
			line = p.pending
			p.pending, p.hasPending = "", false
		} else {
			var err error
			line, err = p.readLine()
			if err == io.EOF {
				return nil, nil
			}
			if err != nil {
				return nil, fmt.Errorf("read variant line: %w", err)
			}
		}

		if line == "" {
			continue // Skip empty lines
		}

		r, err := ParseRecord(line, p.genome)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = p.lineNumber
			}
			return nil, err
		}
		return r, nil
	}
}

// Header returns the meta-information lines, deduplicated, in input order.
func (p *Parser) Header() []string {
	return p.header
}

// ColumnLine returns the #CHROM line, or "" if the source had none.
func (p *Parser) ColumnLine() string {
	return p.columnLine
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	return p.in.Close()
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
