// Package allocbench compares the two ways of constructing a shared.Ptr.
package allocbench

import (
	"fmt"
	"testing"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"github.com/christophwitzko/csvbench/pkg/shared"
)

// Record is the payload owned by the handle.
type Record struct {
	Text   string
	Number int
	Ratio  float32
}

func DefaultRecord() Record {
	return Record{
		Text:   "1234567891012131415161718192021",
		Number: 5,
		Ratio:  3.1415,
	}
}

type Strategy int

const (
	// SeparateAlloc allocates the record first and wraps it afterwards.
	SeparateAlloc Strategy = iota
	// CombinedAlloc allocates the record and the reference count in one block.
	CombinedAlloc
)

func (s Strategy) String() string {
	switch s {
	case SeparateAlloc:
		return "new"
	case CombinedAlloc:
		return "make"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Construct creates a handle owning a default Record.
func Construct(s Strategy) *shared.Ptr[Record] {
	switch s {
	case SeparateAlloc:
		r := DefaultRecord()
		return shared.New(&r)
	case CombinedAlloc:
		return shared.Make(DefaultRecord())
	default:
		panic(fmt.Sprintf("allocbench: unknown strategy %d", int(s)))
	}
}

type Stats struct {
	Constructed int
	Released    int
}

// Live is the number of handles constructed but not released.
func (s Stats) Live() int {
	return s.Constructed - s.Released
}

// Loop runs n construct and release cycles.
func Loop(s Strategy, n int) Stats {
	var stats Stats
	for i := 0; i < n; i++ {
		p := Construct(s)
		stats.Constructed++
		if p.Release() {
			stats.Released++
		}
	}
	return stats
}

func newCase(s Strategy) benchmark.Case {
	return benchmark.Case{
		Name:  "Shared/" + s.String(),
		Label: "shared.Ptr/" + s.String(),
		Fn: func(b *testing.B) {
			b.ReportAllocs()
			if stats := Loop(s, b.N); stats.Live() != 0 {
				b.Fatalf("%d handles still alive", stats.Live())
			}
		},
	}
}

// Cases returns the separate and the combined allocation case.
func Cases() []benchmark.Case {
	return []benchmark.Case{
		newCase(SeparateAlloc),
		newCase(CombinedAlloc),
	}
}
