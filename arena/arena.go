// Package arena provides byte-addressed backing regions for heap metadata. Regions
// grow monotonically and are addressed by plain integer offsets rather than pointers,
// so region contents can be relocated or memory-mapped without invalidating references
// held by consumers.
package arena

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrRegionLimit is returned from Grow when an extension would push a region past
// its configured maximum size. The region is unchanged when this error is returned.
var ErrRegionLimit = errors.New("arena: region limit exceeded")

// DefaultMaxSize is the region size cap applied when no explicit cap is provided.
const DefaultMaxSize = 1 << 30

// Arena is an in-memory growable region. The zero value is not usable; create
// one with New.
type Arena struct {
	buf     []byte
	maxSize int
}

// New creates an empty Arena that may grow to at most maxSize bytes. A maxSize
// of 0 or less applies DefaultMaxSize.
func New(maxSize int) *Arena {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &Arena{
		maxSize: maxSize,
	}
}

// Grow extends the region by n bytes and returns the offset where the new span
// begins (the previous upper bound). Failure leaves the region untouched.
func (a *Arena) Grow(n int) (int, error) {
	if n < 0 {
		return 0, errors.Errorf("arena: cannot grow region by %d bytes", n)
	}

	old := len(a.buf)
	if old+n > a.maxSize {
		return 0, errors.Wrapf(ErrRegionLimit, "cannot grow region from %d to %d bytes, the limit is %d", old, old+n, a.maxSize)
	}

	a.buf = append(a.buf, make([]byte, n)...)
	return old, nil
}

// Lo returns the lower bound offset of the region.
func (a *Arena) Lo() int {
	return 0
}

// Hi returns the current upper bound offset of the region.
func (a *Arena) Hi() int {
	return len(a.buf)
}

// Word reads the little-endian machine word at the provided offset.
func (a *Arena) Word(off int) uint64 {
	return binary.LittleEndian.Uint64(a.buf[off:])
}

// PutWord writes a little-endian machine word at the provided offset.
func (a *Arena) PutWord(off int, w uint64) {
	binary.LittleEndian.PutUint64(a.buf[off:], w)
}

// Bytes returns a mutable window of n bytes starting at the provided offset.
// The window is only valid until the next call to Grow.
func (a *Arena) Bytes(off, n int) []byte {
	return a.buf[off : off+n]
}
