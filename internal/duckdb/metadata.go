package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Export is one row of the exports table.
type Export struct {
	Source  FileFingerprint
	Records int64
}

// RecordExport notes that records from the given source file were exported.
func (s *Store) RecordExport(fp FileFingerprint, records int) error {
	_, err := s.db.Exec(`INSERT INTO exports VALUES (?, ?, ?, ?)`,
		fp.Path, fp.Size, fp.ModTime.UTC(), int64(records))
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// Exports lists the recorded exports, oldest first.
func (s *Store) Exports() ([]Export, error) {
	rows, err := s.db.Query(`SELECT source, size, mod_time, records FROM exports ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var out []Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.Source.Path, &e.Source.Size, &e.Source.ModTime, &e.Records); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return out, nil
}

// Stale reports whether the tables hold something other than fp: the most
// recent export came from another file, or from a different version of it.
// An empty store is stale.
func (s *Store) Stale(fp FileFingerprint) (bool, error) {
	var source string
	var size int64
	var mod time.Time
	err := s.db.QueryRow(`SELECT source, size, mod_time FROM exports
		ORDER BY rowid DESC LIMIT 1`).Scan(&source, &size, &mod)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("query export: %w", err)
	}
	return source != fp.Path || size != fp.Size ||
		!mod.Equal(fp.ModTime.Truncate(time.Microsecond)), nil
}
