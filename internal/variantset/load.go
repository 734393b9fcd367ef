package variantset

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/vcf"
)

// ErrTooManySkipped is returned by a lenient load that skipped more than
// LoadOptions.MaxSkipped lines.
var ErrTooManySkipped = errors.New("too many malformed lines")

// LoadOptions controls how a Set is read from a record source.
type LoadOptions struct {
	// WithMultiBase keeps records whose alleles span more than one base.
	WithMultiBase bool

	// Lenient skips malformed lines instead of failing on the first one.
	Lenient bool

	// MaxSkipped bounds the number of lines a lenient load may skip.
	// Zero means no bound.
	MaxSkipped int

	// Logger receives a warning for every skipped line. Defaults to a no-op logger.
	Logger *zap.Logger
}

// LoadReport summarizes a load.
type LoadReport struct {
	Lines     int   // lines consumed, header included
	Records   int   // records kept in the set
	Filtered  int   // well-formed multi-base records left out
	Skipped   int   // malformed lines skipped in lenient mode
	FirstSkip error // first malformed line, nil if none
}

// Load reads every record from src into a new Set.
//
// In strict mode the first malformed line aborts the load and its
// *vcf.ParseError is returned. In lenient mode malformed lines are skipped
// and counted in the report.
func Load(src vcf.RecordSource, g *genome.Info, opts LoadOptions) (*Set, *LoadReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &LoadReport{}
	records := make([]*vcf.Record, 0, 1024)

	for {
		r, err := src.Next()
		if err != nil {
			var pe *vcf.ParseError
			if !opts.Lenient || !errors.As(err, &pe) {
				report.Lines = src.LineNumber()
				return nil, report, fmt.Errorf("load variants: %w", err)
			}

			report.Skipped++
			if report.FirstSkip == nil {
				report.FirstSkip = err
			}
			logger.Warn("skipping malformed line",
				zap.Int("line", pe.Line),
				zap.String("reason", pe.Message))

			if opts.MaxSkipped > 0 && report.Skipped > opts.MaxSkipped {
				report.Lines = src.LineNumber()
				return nil, report, fmt.Errorf("load variants: %w: %d skipped, first: %v",
					ErrTooManySkipped, report.Skipped, report.FirstSkip)
			}
			continue
		}
		if r == nil {
			break
		}

		if !opts.WithMultiBase && r.IsMultiBase() {
			report.Filtered++
			continue
		}
		records = append(records, r)
	}

	s := &Set{genome: g, records: records, columnLine: src.ColumnLine()}
	s.sort()
	for _, line := range src.Header() {
		s.appendHeader(line)
	}

	report.Lines = src.LineNumber()
	report.Records = len(records)
	if report.Skipped > 0 {
		logger.Warn("malformed lines skipped",
			zap.Int("skipped", report.Skipped),
			zap.Error(report.FirstSkip))
	}
	logger.Debug("variants loaded",
		zap.Int("records", report.Records),
		zap.Int("filtered", report.Filtered),
		zap.Int("lines", report.Lines))

	return s, report, nil
}

// LoadFile opens a VCF file and loads it with Load.
func LoadFile(path string, g *genome.Info, opts LoadOptions) (*Set, *LoadReport, error) {
	parser, err := vcf.NewParser(path, g)
	if err != nil {
		return nil, nil, err
	}
	defer parser.Close()

	return Load(parser, g, opts)
}
