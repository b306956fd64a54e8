package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"golang.org/x/perf/benchfmt"
)

// encoder turns results into bytes. reset is called at the start of every chunk.
type encoder interface {
	encode(result benchmark.Result) ([]byte, error)
	reset()
}

var encoders = map[string]func(t Target) encoder{
	"json": func(Target) encoder { return &jsonEncoder{} },
	"csv":  newCSVEncoder,
	"txt":  func(Target) encoder { return newBenchfmtEncoder() },
}

type jsonEncoder struct {
	buf bytes.Buffer
}

func (j *jsonEncoder) encode(result benchmark.Result) ([]byte, error) {
	j.buf.Reset()
	if err := json.NewEncoder(&j.buf).Encode(result); err != nil {
		return nil, err
	}
	return j.buf.Bytes(), nil
}

func (j *jsonEncoder) reset() {}

type csvEncoder struct {
	buf        bytes.Buffer
	w          *csv.Writer
	withHeader bool
	needHeader bool
}

func newCSVEncoder(t Target) encoder {
	c := &csvEncoder{withHeader: !t.NoCSVHeader}
	c.w = csv.NewWriter(&c.buf)
	c.reset()
	return c
}

func (c *csvEncoder) encode(result benchmark.Result) ([]byte, error) {
	c.buf.Reset()
	if c.needHeader {
		if err := c.w.Write(benchmark.CSVOutputHeader); err != nil {
			return nil, err
		}
		c.needHeader = false
	}
	if err := c.w.Write(result.Record()); err != nil {
		return nil, err
	}
	c.w.Flush()
	return c.buf.Bytes(), c.w.Error()
}

func (c *csvEncoder) reset() {
	c.needHeader = c.withHeader
}

type benchfmtEncoder struct {
	buf bytes.Buffer
	w   *benchfmt.Writer
}

func newBenchfmtEncoder() *benchfmtEncoder {
	b := &benchfmtEncoder{}
	b.w = benchfmt.NewWriter(&b.buf)
	return b
}

func (b *benchfmtEncoder) encode(result benchmark.Result) ([]byte, error) {
	b.buf.Reset()
	if err := b.w.Write(result.Benchfmt()); err != nil {
		return nil, err
	}
	return b.buf.Bytes(), nil
}

// benchfmt only repeats configuration lines when they change, so the writer is kept.
func (b *benchfmtEncoder) reset() {}
