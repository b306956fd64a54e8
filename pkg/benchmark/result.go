package benchmark

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/perf/benchfmt"
)

type Result struct {
	Name       string
	Label      string
	Iterations int
	Ops        float64            // sec/op
	Bytes      float64            // B/op
	Allocs     float64            // allocs/op
	Throughput float64            // MB/s
	Extra      map[string]float64 // custom metrics reported by the case
	R          int                // run index
	I          int                // case index
}

var CSVOutputHeader = []string{
	"R-I",
	"BenchmarkCase",
	"Label",
	"Iterations",
	"sec/op",
	"B/op",
	"allocs/op",
	"MB/s",
	"Extra",
}

func NewResult(c Case, r, i int, b testing.BenchmarkResult) Result {
	res := Result{
		Name:       c.Name,
		Label:      c.label(),
		Iterations: b.N,
		R:          r,
		I:          i,
	}
	if b.N > 0 {
		n := float64(b.N)
		res.Ops = b.T.Seconds() / n
		res.Bytes = float64(b.MemBytes) / n
		res.Allocs = float64(b.MemAllocs) / n
		if b.Bytes > 0 && b.T > 0 {
			res.Throughput = float64(b.Bytes) * n / 1e6 / b.T.Seconds()
		}
	}
	for unit, value := range b.Extra {
		if unit == "ns/op" {
			res.Ops = value / 1e9
			continue
		}
		if res.Extra == nil {
			res.Extra = make(map[string]float64, len(b.Extra))
		}
		res.Extra[unit] = value
	}
	return res
}

func (r Result) RI() string {
	return fmt.Sprintf("%d-%d", r.R, r.I)
}

func (r Result) extraUnits() []string {
	units := make([]string, 0, len(r.Extra))
	for unit := range r.Extra {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (r Result) Record() []string {
	extra := make([]string, 0, len(r.Extra))
	for _, unit := range r.extraUnits() {
		extra = append(extra, unit+"="+formatFloat(r.Extra[unit]))
	}
	return []string{
		r.RI(),
		r.Name,
		r.Label,
		strconv.Itoa(r.Iterations),
		formatFloat(r.Ops),
		formatFloat(r.Bytes),
		formatFloat(r.Allocs),
		formatFloat(r.Throughput),
		strings.Join(extra, ";"),
	}
}

// Benchfmt converts the result into the Go benchmark format record.
func (r Result) Benchfmt() *benchfmt.Result {
	res := &benchfmt.Result{
		Name:  benchfmt.Name(r.Name),
		Iters: r.Iterations,
	}
	res.Values = append(res.Values, benchfmt.Value{
		Value: r.Ops, Unit: "sec/op",
		OrigValue: r.Ops * 1e9, OrigUnit: "ns/op",
	})
	if r.Throughput > 0 {
		res.Values = append(res.Values, benchfmt.Value{
			Value: r.Throughput * 1e6, Unit: "B/s",
			OrigValue: r.Throughput, OrigUnit: "MB/s",
		})
	}
	res.Values = append(res.Values,
		benchfmt.Value{Value: r.Bytes, Unit: "B/op"},
		benchfmt.Value{Value: r.Allocs, Unit: "allocs/op"},
	)
	for _, unit := range r.extraUnits() {
		res.Values = append(res.Values, benchfmt.Value{Value: r.Extra[unit], Unit: unit})
	}
	return res
}

func (r Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d %.0f ns/op", r.Name, r.Iterations, r.Ops*1e9)
	if r.Throughput > 0 {
		fmt.Fprintf(&sb, " %.2f MB/s", r.Throughput)
	}
	fmt.Fprintf(&sb, " %.0f B/op %.0f allocs/op", r.Bytes, r.Allocs)
	for _, unit := range r.extraUnits() {
		fmt.Fprintf(&sb, " %s %s", formatFloat(r.Extra[unit]), unit)
	}
	return sb.String()
}
