//go:build unix

package input

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only into memory.
func Open(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open input: %w", err)
	}

	fStat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to stat input: %w", err)
	}

	size := fStat.Size()
	if size == 0 {
		// mmap rejects zero-length mappings.
		return &Buffer{data: []byte{}, release: f.Close}, nil
	}
	if int64(int(size)) != size {
		f.Close()
		return nil, fmt.Errorf("input of %d bytes does not fit in memory", size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to mmap input: %w", err)
	}
	// Advisory only, a failure here does not affect correctness.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &Buffer{
		data: data,
		release: func() error {
			return errors.Join(unix.Munmap(data), f.Close())
		},
	}, nil
}
