package genome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/vcfindex/internal/xopen"
)

// LoadFile builds an Info for a reference FASTA file.
// If "<path>.fai" exists the chromosome list is taken from the index;
// otherwise the FASTA sequence is scanned to measure each chromosome.
func LoadFile(path string) (*Info, error) {
	faiPath := path + ".fai"
	if _, err := os.Stat(faiPath); err == nil {
		r, err := xopen.Open(faiPath)
		if err != nil {
			return nil, fmt.Errorf("open fasta index: %w", err)
		}
		defer r.Close()
		return ReadFAI(r)
	}

	r, err := xopen.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta file: %w", err)
	}
	defer r.Close()
	return ReadFASTA(r)
}

// ReadFAI parses a samtools FASTA index: name and length in the first two
// tab-separated columns.
func ReadFAI(r io.Reader) (*Info, error) {
	var names []string
	var lengths []int

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("fasta index line %d: expected at least 2 columns, found %d", lineNumber, len(fields))
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("fasta index line %d: invalid length: %s", lineNumber, fields[1])
		}
		names = append(names, fields[0])
		lengths = append(lengths, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta index: %w", err)
	}

	return NewInfo(names, lengths)
}

// ReadFASTA scans FASTA records and records each sequence name and length.
// The name is the first whitespace-delimited token after '>'.
func ReadFASTA(r io.Reader) (*Info, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for unwrapped sequences
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 256*1024*1024)

	var names []string
	var lengths []int
	current := -1

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("fasta header without a name: %q", line)
			}
			names = append(names, fields[0])
			lengths = append(lengths, 0)
			current = len(names) - 1
			continue
		}

		if current < 0 {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, fmt.Errorf("fasta sequence before first header")
		}
		lengths[current] += len(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta: %w", err)
	}

	return NewInfo(names, lengths)
}
