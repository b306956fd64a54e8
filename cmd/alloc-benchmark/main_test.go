package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/christophwitzko/csvbench/pkg/suite"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestAllocBenchmark(t *testing.T) {
	logrusLogger, hook := test.NewNullLogger()
	results := filepath.Join(t.TempDir(), "results.csv")
	stdout := &bytes.Buffer{}

	code := suite.Execute(rootCmd(&logger.Logger{Logger: logrusLogger}), []string{"--benchtime", "100x", "--output", results}, stdout, &bytes.Buffer{})
	require.Equal(t, 0, code)
	require.Empty(t, stdout.String())
	require.NotEmpty(t, hook.AllEntries())

	f, err := os.Open(results)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, benchmark.CSVOutputHeader, records[0])
	require.Equal(t, []string{"1-1", "Shared/new", "shared.Ptr/new", "100"}, records[1][:4])
	require.Equal(t, []string{"1-2", "Shared/make", "shared.Ptr/make", "100"}, records[2][:4])
	separate, err := strconv.ParseFloat(records[1][6], 64)
	require.NoError(t, err)
	combined, err := strconv.ParseFloat(records[2][6], 64)
	require.NoError(t, err)
	require.InDelta(t, 2, separate, 0.1)
	require.InDelta(t, 1, combined, 0.1)
}

func TestAllocBenchmarkUsage(t *testing.T) {
	for _, args := range [][]string{{"extra"}, {"--count", "x"}} {
		logrusLogger, _ := test.NewNullLogger()
		stdout := &bytes.Buffer{}
		code := suite.Execute(rootCmd(&logger.Logger{Logger: logrusLogger}), args, stdout, &bytes.Buffer{})
		require.Equal(t, 1, code)
		require.Equal(t, usage+"\n", stdout.String())
	}
}
