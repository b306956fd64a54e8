package benchmark

import (
	"flag"
	"testing"
)

// Case is a named body executed by the harness. Name follows the Go benchmark naming
// rules without the "Benchmark" prefix, Label is shown to the user.
type Case struct {
	Name  string
	Label string
	Fn    func(b *testing.B)
}

func (c Case) label() string {
	if c.Label == "" {
		return c.Name
	}
	return c.Label
}

// SetBenchTime sets the run time or iteration count (e.g. "1s" or "100x") used for every case.
func SetBenchTime(benchTime string) error {
	testing.Init()
	return flag.Set("test.benchtime", benchTime)
}
