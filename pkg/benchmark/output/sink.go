// Package output writes benchmark results to files, stdout or cloud storage.
package output

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"github.com/christophwitzko/csvbench/pkg/logger"
)

// sink writes the results of one target, rotating files when chunking is enabled.
type sink struct {
	ctx    context.Context
	log    *logger.Logger
	target Target
	enc    encoder

	mu     sync.Mutex
	w      io.WriteCloser
	chunks int
	last   *benchmark.Result
}

func newSink(ctx context.Context, log *logger.Logger, t Target) *sink {
	return &sink{
		ctx:    ctx,
		log:    log,
		target: t,
		enc:    encoders[t.Type](t),
	}
}

func (s *sink) rotate() error {
	if s.w != nil {
		err := s.w.Close()
		s.w = nil
		if err != nil {
			return err
		}
	}
	path := s.target.Path
	if s.target.Chunked {
		path = s.target.chunkPath(s.chunks)
		s.chunks++
		s.enc.reset()
	}
	w, err := openWriter(s.ctx, s.log, s.target, path)
	if err != nil {
		return err
	}
	s.log.Debugf("writing %s results to %s://%s%s", s.target.Type, s.target.Schema, s.target.Bucket, path)
	s.w = w
	return nil
}

func (s *sink) Write(result benchmark.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil || (s.target.Chunked && s.target.ChunkBy.startsChunk(s.last, result)) {
		if err := s.rotate(); err != nil {
			return err
		}
	}
	data, err := s.enc.encode(result)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(data); err != nil {
		return err
	}
	s.last = &result
	return nil
}

func (s *sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	err := s.w.Close()
	s.w = nil
	return err
}

// New parses every raw target and returns a writer fanning results out to all of them.
// Files are opened with the first result.
func New(ctx context.Context, log *logger.Logger, rawTargets []string, defaultType string) (*benchmark.MultiResultWriter, error) {
	sinks := make([]benchmark.ResultWriter, 0, len(rawTargets))
	for _, raw := range rawTargets {
		t, err := ParseTarget(raw, defaultType)
		if err != nil {
			return nil, fmt.Errorf("invalid output %s: %w", raw, err)
		}
		sinks = append(sinks, newSink(ctx, log, t))
	}
	return benchmark.NewMultiResultWriter(sinks), nil
}
