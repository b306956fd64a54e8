//go:build !unix

package mmap

import "io"

// mapFile reads the whole file on platforms without mmap support.
func (m *Mapping) mapFile(size int) error {
	data := make([]byte, size)
	if _, err := io.ReadFull(m.file, data); err != nil {
		return err
	}
	m.data = data
	return nil
}
