//go:build unix

package arena

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/memkit/segfit"
)

// FileArena is a file-backed region mapped read-write with mmap. The whole
// capacity is mapped and truncated up front, so Grow is pure bookkeeping and
// windows returned from Bytes stay valid until Close. Close trims the file
// back down to the grown size.
type FileArena struct {
	f       *os.File
	data    []byte
	size    int
	maxSize int
}

// OpenFile creates or opens the file at path and maps it as a region that may
// grow to at most maxSize bytes, rounded up to the page size. A maxSize of 0
// or less applies DefaultMaxSize. Any previous contents of the file are ignored.
func OpenFile(path string, maxSize int) (*FileArena, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	maxSize = segfit.AlignUp(maxSize, uint(os.Getpagesize()))

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	if err = f.Truncate(int64(maxSize)); err != nil {
		_ = f.Close()
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, maxSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "arena: cannot map %s", path)
	}

	return &FileArena{
		f:       f,
		data:    data,
		maxSize: maxSize,
	}, nil
}

// Grow extends the region by n bytes and returns the offset where the new span
// begins. Failure leaves the region untouched.
func (a *FileArena) Grow(n int) (int, error) {
	if n < 0 {
		return 0, errors.Errorf("arena: cannot grow region by %d bytes", n)
	}

	if a.size+n > a.maxSize {
		return 0, errors.Wrapf(ErrRegionLimit, "cannot grow region from %d to %d bytes, the limit is %d", a.size, a.size+n, a.maxSize)
	}

	old := a.size
	a.size += n
	return old, nil
}

// Lo returns the lower bound offset of the region.
func (a *FileArena) Lo() int {
	return 0
}

// Hi returns the current upper bound offset of the region.
func (a *FileArena) Hi() int {
	return a.size
}

// Word reads the little-endian machine word at the provided offset.
func (a *FileArena) Word(off int) uint64 {
	return binary.LittleEndian.Uint64(a.data[off:])
}

// PutWord writes a little-endian machine word at the provided offset.
func (a *FileArena) PutWord(off int, w uint64) {
	binary.LittleEndian.PutUint64(a.data[off:], w)
}

// Bytes returns a mutable window of n bytes starting at the provided offset.
func (a *FileArena) Bytes(off, n int) []byte {
	return a.data[off : off+n]
}

// Flush synchronously writes the mapped region back to the file.
//
// The whole mapping is flushed rather than the grown prefix: on Darwin, msync
// requires the address passed in to match the original mmap address, and the
// kernel only writes dirty pages either way.
func (a *FileArena) Flush() error {
	return unix.Msync(a.data, unix.MS_SYNC)
}

// Close unmaps the region, trims the file to the grown size, and closes it.
func (a *FileArena) Close() error {
	if a.data == nil {
		return nil
	}

	err := unix.Munmap(a.data)
	a.data = nil
	if err != nil {
		_ = a.f.Close()
		return err
	}

	if err = a.f.Truncate(int64(a.size)); err != nil {
		_ = a.f.Close()
		return err
	}

	return a.f.Close()
}
