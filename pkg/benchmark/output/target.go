package output

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
)

// ChunkBy decides when a chunked target starts a new file.
type ChunkBy int

const (
	// ChunkNone writes all results into the first chunk.
	ChunkNone ChunkBy = iota
	// ChunkRun starts a chunk for every execution of the suite.
	ChunkRun
	// ChunkCase starts a chunk for every case of every execution.
	ChunkCase
)

func parseChunkBy(s string) (ChunkBy, error) {
	switch s {
	case "no-chunk":
		return ChunkNone, nil
	case "run":
		return ChunkRun, nil
	case "case", "":
		return ChunkCase, nil
	}
	return 0, fmt.Errorf("unsupported chunk function: %s", s)
}

// startsChunk reports whether next belongs into a new chunk. last is nil before the first
// result.
func (c ChunkBy) startsChunk(last *benchmark.Result, next benchmark.Result) bool {
	if last == nil {
		return true
	}
	switch c {
	case ChunkRun:
		return last.R != next.R
	case ChunkCase:
		return last.R != next.R || last.Name != next.Name
	}
	return false
}

// Target is a parsed output location: [schema://bucket]/path[.type][?params].
type Target struct {
	Schema      string
	Bucket      string
	Path        string
	Type        string
	Chunked     bool
	ChunkBy     ChunkBy
	NoCSVHeader bool
}

var schemas = map[string]bool{
	"file": true,
	"gs":   true,
	"gcs":  true,
}

// ParseTarget parses raw. The type is the path extension, or defaultType without one.
func ParseTarget(raw, defaultType string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, err
	}
	params := u.Query()
	t := Target{
		Schema:      strings.ToLower(u.Scheme),
		Bucket:      u.Host,
		Path:        u.Path,
		Type:        strings.TrimPrefix(filepath.Ext(u.Path), "."),
		Chunked:     params.Get("chunked") == "true",
		NoCSVHeader: params.Get("no-csv-header") == "true",
	}
	if t.Schema == "" {
		t.Schema = "file"
	}
	if t.Type == "" {
		t.Type = defaultType
	}
	if !schemas[t.Schema] {
		return Target{}, fmt.Errorf("unsupported output schema: %s", t.Schema)
	}
	if _, ok := encoders[t.Type]; !ok {
		return Target{}, fmt.Errorf("unsupported output type: %s", t.Type)
	}
	if t.Schema != "file" && t.Bucket == "" {
		return Target{}, fmt.Errorf("missing bucket in output %s", raw)
	}
	if t.Chunked {
		if t.IsStdout() {
			return Target{}, fmt.Errorf("cannot chunk to stdout")
		}
		if t.ChunkBy, err = parseChunkBy(params.Get("new-chunk-fn")); err != nil {
			return Target{}, err
		}
	}
	return t, nil
}

func (t Target) IsStdout() bool {
	return t.Schema == "file" && t.Path == "-"
}

func (t Target) chunkPath(index int) string {
	return fmt.Sprintf("%s.%04d", t.Path, index)
}
