package benchmark

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/perf/benchfmt"
)

func testResult() Result {
	c := Case{Name: "Tokenize", Label: "Benchmark #1 csvtok {data.csv}"}
	return NewResult(c, 2, 1, testing.BenchmarkResult{
		N:         100,
		T:         2 * time.Second,
		Bytes:     1_000_000,
		MemAllocs: 300,
		MemBytes:  6400,
		Extra:     map[string]float64{"rows/op": 2, "cells/op": 6},
	})
}

func TestNewResult(t *testing.T) {
	res := testResult()
	require.Equal(t, "Tokenize", res.Name)
	require.Equal(t, "Benchmark #1 csvtok {data.csv}", res.Label)
	require.Equal(t, 100, res.Iterations)
	require.InDelta(t, 0.02, res.Ops, 1e-12)
	require.InDelta(t, 64.0, res.Bytes, 1e-12)
	require.InDelta(t, 3.0, res.Allocs, 1e-12)
	require.InDelta(t, 50.0, res.Throughput, 1e-9)
	require.Equal(t, "2-1", res.RI())
	require.Equal(t, []string{
		"2-1",
		"Tokenize",
		"Benchmark #1 csvtok {data.csv}",
		"100",
		"0.02",
		"64",
		"3",
		"50",
		"cells/op=6;rows/op=2",
	}, res.Record())
}

func TestNewResultNsPerOpOverride(t *testing.T) {
	res := NewResult(Case{Name: "Custom"}, 1, 1, testing.BenchmarkResult{
		N:     10,
		T:     time.Second,
		Extra: map[string]float64{"ns/op": 5},
	})
	require.InDelta(t, 5e-9, res.Ops, 1e-18)
	require.Nil(t, res.Extra)
	require.Equal(t, "Custom", res.Label)
}

func TestResultBenchfmt(t *testing.T) {
	res := testResult()
	buf := &bytes.Buffer{}
	w := benchfmt.NewWriter(buf)
	require.NoError(t, w.Write(res.Benchfmt()))
	require.Contains(t, buf.String(), "BenchmarkTokenize 100 ")

	reader := benchfmt.NewReader(buf, "results.txt")
	require.True(t, reader.Scan())
	parsed, ok := reader.Result().(*benchfmt.Result)
	require.True(t, ok)
	require.Equal(t, "Tokenize", string(parsed.Name))
	require.Equal(t, 100, parsed.Iters)

	secOp, ok := parsed.Value("sec/op")
	require.True(t, ok)
	require.InDelta(t, 0.02, secOp, 1e-9)
	bytesPerSec, ok := parsed.Value("B/s")
	require.True(t, ok)
	require.InDelta(t, 50e6, bytesPerSec, 1e-3)
	rows, ok := parsed.Value("rows/op")
	require.True(t, ok)
	require.Equal(t, 2.0, rows)
	require.False(t, reader.Scan())
	require.NoError(t, reader.Err())
}

func TestResultString(t *testing.T) {
	require.Equal(t,
		"Tokenize 100 20000000 ns/op 50.00 MB/s 64 B/op 3 allocs/op 6 cells/op 2 rows/op",
		testResult().String(),
	)
}

type closingWriter struct {
	resultCollector
	closed   bool
	closeErr error
}

func (c *closingWriter) Close() error {
	c.closed = true
	return c.closeErr
}

func TestMultiResultWriter(t *testing.T) {
	plain := &resultCollector{}
	okCloser := &closingWriter{}
	errA := errors.New("a")
	errB := errors.New("b")
	failA := &closingWriter{closeErr: errA}
	failB := &closingWriter{closeErr: errB}

	m := NewMultiResultWriter([]ResultWriter{plain, okCloser, failA, failB})
	require.NoError(t, m.Write(testResult()))
	require.Len(t, plain.results, 1)
	require.Len(t, okCloser.results, 1)

	err := m.Close()
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	require.True(t, okCloser.closed)

	require.NoError(t, NewMultiResultWriter([]ResultWriter{plain, okCloser}).Close())
}
