// Package profile captures CPU profiles of benchmark runs and summarizes them.
package profile

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"

	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/christophwitzko/csvbench/pkg/merror"
	"github.com/google/pprof/profile"
)

// StartCPU starts CPU profiling into outputFile. The returned function stops profiling
// and closes the file.
func StartCPU(outputFile string) (func() error, error) {
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return nil, merror.MaybeMultiError(fmt.Errorf("could not start CPU profile: %w", err), f.Close())
	}
	return func() error {
		pprof.StopCPUProfile()
		return f.Close()
	}, nil
}

type Entry struct {
	Function string
	Flat     int64
	Fraction float64
}

// Top returns the n functions with the highest flat value of the profile read from r.
// The value is taken from the "cpu" sample type if present, otherwise the last one.
func Top(r io.Reader, n int) ([]Entry, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse profile: %w", err)
	}
	if len(p.SampleType) == 0 {
		return nil, nil
	}
	valueIndex := len(p.SampleType) - 1
	for i, st := range p.SampleType {
		if st.Type == "cpu" {
			valueIndex = i
		}
	}

	flat := make(map[string]int64)
	var total int64
	for _, s := range p.Sample {
		v := s.Value[valueIndex]
		total += v
		if len(s.Location) == 0 || len(s.Location[0].Line) == 0 {
			continue
		}
		// the leaf function of the innermost inlined frame
		fn := s.Location[0].Line[0].Function
		if fn == nil {
			continue
		}
		flat[fn.Name] += v
	}

	entries := make([]Entry, 0, len(flat))
	for name, v := range flat {
		e := Entry{Function: name, Flat: v}
		if total > 0 {
			e.Fraction = float64(v) / float64(total)
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Flat != entries[j].Flat {
			return entries[i].Flat > entries[j].Flat
		}
		return entries[i].Function < entries[j].Function
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// LogTop logs the n hottest functions of the profile stored in profileFile.
func LogTop(log *logger.Logger, profileFile string, n int) error {
	f, err := os.Open(profileFile)
	if err != nil {
		return err
	}
	defer f.Close()
	entries, err := Top(f, n)
	if err != nil {
		return err
	}
	log.Infof("cpu profile %s, top %d:", profileFile, len(entries))
	for _, e := range entries {
		log.Infof("  %6.2f%% %s", e.Fraction*100, e.Function)
	}
	return nil
}
