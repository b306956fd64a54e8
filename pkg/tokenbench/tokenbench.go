// Package tokenbench measures the throughput of the csvtok tokenizer on a memory mapped file.
package tokenbench

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"github.com/christophwitzko/csvbench/pkg/csvtok"
	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/christophwitzko/csvbench/pkg/merror"
	"github.com/christophwitzko/csvbench/pkg/mmap"
)

// ErrStdlibQuote is returned when encoding/csv is asked to use a quote character other than '"'.
var ErrStdlibQuote = errors.New("encoding/csv only supports '\"' as quote character")

// OpenError reports that the input file could not be mapped.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return e.Err.Error()
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

func openMapping(path string) (*mmap.Mapping, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return m, nil
}

func closeMapping(m *mmap.Mapping) error {
	if err := m.Close(); err != nil {
		return fmt.Errorf("failed to unmap %s: %w", m.Path(), err)
	}
	return nil
}

// Counts is the number of rows and cells seen during one traversal.
type Counts struct {
	Rows  int
	Cells int
}

// Count walks every row and every cell of r without looking at the content.
func Count(r *csvtok.Reader) Counts {
	var c Counts
	for row := range r.Rows() {
		c.Rows++
		for range row.Cells() {
			c.Cells++
		}
	}
	return c
}

// CountFile maps path, counts its rows and cells and releases the mapping again.
// It returns the counts and the number of mapped bytes. A failed mapping is an *OpenError.
func CountFile(path string, d csvtok.Dialect) (Counts, int64, error) {
	m, err := openMapping(path)
	if err != nil {
		return Counts{}, 0, err
	}
	c := Count(csvtok.NewReader(m.Bytes(), d))
	size := int64(m.Len())
	return c, size, closeMapping(m)
}

// CountFileStdlib is CountFile using encoding/csv on top of the mapping. encoding/csv
// skips empty lines, so a file with blank lines reports fewer rows and cells than CountFile.
func CountFileStdlib(path string, d csvtok.Dialect) (Counts, int64, error) {
	m, err := openMapping(path)
	if err != nil {
		return Counts{}, 0, err
	}
	c, err := countEncodingCSV(m.Bytes(), d)
	if err != nil {
		err = fmt.Errorf("encoding/csv: %w", err)
	}
	size := int64(m.Len())
	return c, size, merror.MaybeMultiError(err, closeMapping(m))
}

func countEncodingCSV(data []byte, d csvtok.Dialect) (Counts, error) {
	var c Counts
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = rune(d.Delimiter)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		if err != nil {
			return c, err
		}
		if first && d.Header {
			first = false
			continue
		}
		first = false
		c.Rows++
		c.Cells += len(record)
	}
}

// LogHeader logs the header row of path if d declares one. It is informational and leaves
// reporting a failed mapping to the timed case.
func LogHeader(log *logger.Logger, path string, d csvtok.Dialect) {
	if !d.Header {
		return
	}
	m, err := openMapping(path)
	if err != nil {
		log.Debugf("no header: %v", err)
		return
	}
	defer func() {
		if err := closeMapping(m); err != nil {
			log.Warnf("%v", err)
		}
	}()
	header, ok := csvtok.NewReader(m.Bytes(), d).Header()
	if !ok {
		log.Infof("%s: empty file, no header", m.Path())
		return
	}
	log.Infof("%s: header (line %d): %s", m.Path(), header.Line(), strings.Join(header.Values(), " | "))
}

// Label is the name shown for a benchmark run over path.
func Label(path string) string {
	return fmt.Sprintf("Benchmark #1 csvtok {%s}", path)
}

type countFunc func(path string, d csvtok.Dialect) (Counts, int64, error)

func newCase(log *logger.Logger, name, label, path string, d csvtok.Dialect, count countFunc) benchmark.Case {
	return benchmark.Case{
		Name:  name,
		Label: label,
		Fn: func(b *testing.B) {
			b.ReportAllocs()
			var c Counts
			for i := 0; i < b.N; i++ {
				var (
					size int64
					err  error
				)
				c, size, err = count(path, d)
				if err != nil {
					var openErr *OpenError
					if errors.As(err, &openErr) {
						log.Errorf("error: Failed to open %s: %v", path, openErr.Err)
					} else {
						log.Errorf("error: Failed to tokenize %s: %v", path, err)
					}
					b.SkipNow()
				}
				b.SetBytes(size)
			}
			b.ReportMetric(float64(c.Rows), "rows/op")
			b.ReportMetric(float64(c.Cells), "cells/op")
		},
	}
}

// Case is the timed tokenizer case for path. Each iteration maps the file, counts rows and
// cells and releases the mapping. A failed mapping is logged and ends the case.
func Case(log *logger.Logger, path string, d csvtok.Dialect) benchmark.Case {
	return newCase(log, "Tokenize", Label(path), path, d, CountFile)
}

// StdlibCase is Case using encoding/csv, for comparison. Both cases do the same work only on
// files without blank lines, see CountFileStdlib.
func StdlibCase(log *logger.Logger, path string, d csvtok.Dialect) (benchmark.Case, error) {
	if d.Quote != '"' {
		return benchmark.Case{}, ErrStdlibQuote
	}
	return newCase(log, "Tokenize/encoding-csv", Label(path)+" encoding/csv", path, d, CountFileStdlib), nil
}
