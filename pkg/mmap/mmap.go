// Package mmap maps whole files read-only into memory.
package mmap

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/christophwitzko/csvbench/pkg/merror"
)

var (
	ErrIsDirectory = errors.New("is a directory")
	ErrTooLarge    = errors.New("file too large to map")
)

// Mapping is the read-only contents of a mapped file.
type Mapping struct {
	path   string
	file   *os.File
	data   []byte
	unmap  func([]byte) error
	closed bool
}

// Open maps the file at path. The returned Mapping must be closed by the caller.
func Open(path string) (*Mapping, error) {
	m, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}
	return m, nil
}

func open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, merror.MaybeMultiError(err, f.Close())
	}
	if fi.IsDir() {
		return nil, merror.MaybeMultiError(ErrIsDirectory, f.Close())
	}
	size := fi.Size()
	if size > math.MaxInt {
		return nil, merror.MaybeMultiError(ErrTooLarge, f.Close())
	}
	m := &Mapping{path: path, file: f}
	if size == 0 {
		return m, nil
	}
	if err := m.mapFile(int(size)); err != nil {
		return nil, merror.MaybeMultiError(err, f.Close())
	}
	return m, nil
}

// Path returns the path the mapping was opened from.
func (m *Mapping) Path() string {
	return m.path
}

// Bytes returns the mapped contents. The slice must not be used after Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Len returns the size of the mapping in bytes.
func (m *Mapping) Len() int {
	return len(m.data)
}

// Close releases the mapping and the underlying file. Calling Close more than once is a no-op.
func (m *Mapping) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	var unmapErr error
	if m.data != nil && m.unmap != nil {
		unmapErr = m.unmap(m.data)
	}
	m.data = nil
	return merror.MaybeMultiError(unmapErr, m.file.Close())
}
