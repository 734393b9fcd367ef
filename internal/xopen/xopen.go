// Package xopen opens plain, gzip, or bzip2 compressed text streams.
package xopen

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte("BZh")
)

// Reader is a buffered, decompressed view of a file or stdin.
type Reader struct {
	*bufio.Reader
	file *os.File
	gz   *gzip.Reader
}

// Open opens path for reading. "-" reads from stdin.
// Compression is detected from the leading magic bytes.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r.file = f
	return r, nil
}

// NewReader wraps r, decompressing it if it starts with gzip or bzip2 magic.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek stream header: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &Reader{Reader: bufio.NewReader(gz), gz: gz}, nil
	case bytes.HasPrefix(head, bzip2Magic):
		return &Reader{Reader: bufio.NewReader(bzip2.NewReader(br))}, nil
	}
	return &Reader{Reader: br}, nil
}

// Close releases the decompressor and the underlying file, if any.
func (r *Reader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Writer is a buffered, optionally gzip compressed output stream.
type Writer struct {
	*bufio.Writer
	file *os.File
	gz   *gzip.Writer
}

// Create opens path for writing. "-" writes to stdout.
// Paths ending in ".gz" are gzip compressed.
func Create(path string) (*Writer, error) {
	if path == "-" {
		return &Writer{Writer: bufio.NewWriter(os.Stdout)}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	w := &Writer{file: f}
	if strings.HasSuffix(path, ".gz") {
		w.gz = gzip.NewWriter(f)
		w.Writer = bufio.NewWriter(w.gz)
	} else {
		w.Writer = bufio.NewWriter(f)
	}
	return w, nil
}

// Close flushes all buffered output and closes the file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return fmt.Errorf("close gzip writer: %w", err)
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
