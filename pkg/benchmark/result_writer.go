package benchmark

import (
	"io"

	"github.com/christophwitzko/csvbench/pkg/merror"
	"golang.org/x/sync/errgroup"
)

type ResultWriter interface {
	Write(result Result) error
}

type MultiResultWriter struct {
	writers []ResultWriter
}

func NewMultiResultWriter(writers []ResultWriter) *MultiResultWriter {
	return &MultiResultWriter{writers: writers}
}

func (m *MultiResultWriter) Write(result Result) error {
	for _, w := range m.writers {
		if err := w.Write(result); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all writers that implement io.Closer concurrently.
func (m *MultiResultWriter) Close() error {
	errs := make([]error, len(m.writers))
	var g errgroup.Group
	for i, w := range m.writers {
		closer, ok := w.(io.Closer)
		if !ok {
			continue
		}
		i := i
		g.Go(func() error {
			errs[i] = closer.Close()
			return nil
		})
	}
	_ = g.Wait()
	return merror.MaybeMultiError(nil, errs...)
}
