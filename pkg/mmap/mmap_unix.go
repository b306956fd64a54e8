//go:build unix

package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func (m *Mapping) mapFile(size int) error {
	data, err := unix.Mmap(int(m.file.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}
	// advisory only
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	m.data = data
	m.unmap = unix.Munmap
	return nil
}
