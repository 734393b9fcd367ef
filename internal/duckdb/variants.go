package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/variantset"
	"github.com/inodb/vcfindex/internal/vcf"
)

// WriteSet replaces the variants and header tables with the contents of s
// using the Appender API. Records keep their set order in the ordinal column.
func (s *Store) WriteSet(set *variantset.Set) error {
	if err := s.ClearVariants(); err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var variants, header *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		variants, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variants")
		if err != nil {
			return err
		}
		header, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "header")
		return err
	}); err != nil {
		if variants != nil {
			variants.Close()
		}
		return fmt.Errorf("create appender: %w", err)
	}
	defer variants.Close()
	defer header.Close()

	g := set.Genome()
	for i := 0; i < set.Size(); i++ {
		r, _ := set.Get(i)
		name, ok := g.NameAt(r.Chrom)
		if !ok {
			name = "."
		}
		if err := variants.AppendRow(
			int64(i), name, int64(r.Chrom), int64(r.Pos),
			r.ID, r.Ref, r.Alt, r.Qual, r.Filter, r.Info, r.Format, r.Genotype,
		); err != nil {
			return fmt.Errorf("append variant at %s: %w", r.Locus().Format(g), err)
		}
	}

	lines := set.Header()
	if cl := set.ColumnLine(); cl != "" {
		lines = append(lines, cl)
	}
	for i, line := range lines {
		if err := header.AppendRow(int64(i), line); err != nil {
			return fmt.Errorf("append header line: %w", err)
		}
	}

	if err := variants.Flush(); err != nil {
		return fmt.Errorf("flush variants: %w", err)
	}
	return header.Flush()
}

// ClearVariants removes all exported variants and header lines.
func (s *Store) ClearVariants() error {
	if _, err := s.db.Exec("DELETE FROM variants"); err != nil {
		return fmt.Errorf("clear variants: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM header"); err != nil {
		return fmt.Errorf("clear header: %w", err)
	}
	return nil
}

// VariantCount returns the number of exported variants.
func (s *Store) VariantCount() (int, error) {
	var n int64
	if err := s.db.QueryRow("SELECT count(*) FROM variants").Scan(&n); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return int(n), nil
}

// CountInInterval counts exported variants on chromosome index chrom with
// start <= pos <= end.
func (s *Store) CountInInterval(chrom, start, end int) (int, error) {
	var n int64
	err := s.db.QueryRow(`SELECT count(*) FROM variants
		WHERE chrom_index=? AND pos BETWEEN ? AND ?`,
		int64(chrom), int64(start), int64(end)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count interval: %w", err)
	}
	return int(n), nil
}

// LookupLocus returns the exported variants at l in set order, together
// with the ordinal of the first one (-1 when there are none).
func (s *Store) LookupLocus(l genome.Locus) ([]*vcf.Record, int, error) {
	rows, err := s.db.Query(`SELECT
		ordinal, chrom_index, pos, id, ref, alt, qual, filter, info, format, genotype
		FROM variants
		WHERE chrom_index=? AND pos=?
		ORDER BY ordinal`,
		int64(l.Chrom), int64(l.Pos))
	if err != nil {
		return nil, -1, fmt.Errorf("query locus: %w", err)
	}
	defer rows.Close()

	first := -1
	var records []*vcf.Record
	for rows.Next() {
		var ordinal, chrom, pos int64
		r := &vcf.Record{}
		if err := rows.Scan(
			&ordinal, &chrom, &pos,
			&r.ID, &r.Ref, &r.Alt, &r.Qual, &r.Filter, &r.Info, &r.Format, &r.Genotype,
		); err != nil {
			return nil, -1, fmt.Errorf("scan variant: %w", err)
		}
		r.Chrom, r.Pos = int(chrom), int(pos)
		if first < 0 {
			first = int(ordinal)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, -1, fmt.Errorf("iterate variants: %w", err)
	}
	return records, first, nil
}

// Header returns the exported header lines in order, the column line last.
func (s *Store) Header() ([]string, error) {
	rows, err := s.db.Query("SELECT line FROM header ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("query header: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan header line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate header: %w", err)
	}
	return lines, nil
}
