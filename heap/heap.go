// Package heap implements a segregated-fit allocator over a growable byte
// region. Blocks are framed by packed boundary tags and free blocks are
// indexed by eleven power-of-two size classes, with eager boundary-tag
// coalescing keeping physically adjacent free blocks merged at all times.
package heap

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"

	"github.com/memkit/segfit"
	"github.com/memkit/segfit/internal/utils"
)

// Heap manages variable-sized blocks within a Store. Block payloads are
// identified by Ref offsets, which stay valid until the block is freed: the
// heap never relocates or compacts live blocks.
//
// All state is per-instance; independent heaps over independent stores do not
// interact.
type Heap struct {
	logger *slog.Logger
	store  Store
	mutex  utils.OptionalRWMutex

	createFlags CreateFlags
	chunkSize   int

	free  freeList
	start Ref

	allocCount int
	allocBytes int
}

// Allocate obtains a block with a payload capacity of at least n bytes and
// returns its payload reference. The reference is always 16-byte aligned.
// A request of 0 or fewer bytes returns NullRef with no error. Allocate only
// returns an error when no free block fits and the backing region cannot
// grow; no heap state changes in that case.
func (h *Heap) Allocate(n int) (Ref, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.logger.Debug("Heap::Allocate", slog.Int("Size", n))
	segfit.DebugValidate(lockedValidator{h})

	return h.allocate(n)
}

// Free releases the block at b, merging it with any physically adjacent free
// neighbors. Passing a reference that was not returned by an allocation
// method of this heap, or that was already freed, is undefined behavior.
// Free(NullRef) is a no-op.
func (h *Heap) Free(b Ref) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.logger.Debug("Heap::Free", slog.Int("Offset", int(b)))
	segfit.DebugValidate(lockedValidator{h})

	h.freeBlock(b)
}

// Resize moves the block at b to a new block with a payload capacity of at
// least n bytes, copying the first min(old payload capacity, n) bytes of
// payload. Resize(NullRef, n) is equivalent to Allocate(n), and Resize(b, 0)
// frees b and returns NullRef. Resize always allocates a fresh block, even
// when the existing block has sufficient adjacent free space; on allocation
// failure the old block is untouched and still valid.
func (h *Heap) Resize(b Ref, n int) (Ref, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.logger.Debug("Heap::Resize", slog.Int("Offset", int(b)), slog.Int("Size", n))
	segfit.DebugValidate(lockedValidator{h})

	if b == NullRef {
		return h.allocate(n)
	}
	if n <= 0 {
		h.freeBlock(b)
		return NullRef, nil
	}

	newBlock, err := h.allocate(n)
	if err != nil {
		return NullRef, err
	}

	count := h.payloadSize(b)
	if n < count {
		count = n
	}
	copy(h.store.Bytes(int(newBlock), count), h.store.Bytes(int(b), count))
	h.freeBlock(b)

	return newBlock, nil
}

// AllocateZeroed obtains a zero-filled block large enough for count elements
// of the provided size. The element count and size are multiplied without an
// overflow guard, matching Allocate's contract for the product.
func (h *Heap) AllocateZeroed(count, size int) (Ref, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.logger.Debug("Heap::AllocateZeroed", slog.Int("Count", count), slog.Int("Size", size))
	segfit.DebugValidate(lockedValidator{h})

	total := count * size
	b, err := h.allocate(total)
	if err != nil || b == NullRef {
		return b, err
	}

	data := h.store.Bytes(int(b), total)
	for i := range data {
		data[i] = 0
	}

	return b, nil
}

// Bytes returns a mutable window of n bytes into the payload at b. The window
// is only valid until the next operation that grows the backing region.
func (h *Heap) Bytes(b Ref, n int) []byte {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.store.Bytes(int(b), n)
}

// PayloadSize returns the usable payload capacity of the block at b, which may
// exceed the size originally requested.
func (h *Heap) PayloadSize(b Ref) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.payloadSize(b)
}

func (h *Heap) payloadSize(b Ref) int {
	return h.blockSize(b) - blockOverhead
}

// adjustSize converts a requested byte count into a block size: payload plus
// boundary tag overhead, rounded up to Alignment, never below MinBlockSize.
func adjustSize(n int) int {
	if n <= Alignment {
		return MinBlockSize
	}
	return segfit.AlignUp(n+blockOverhead, Alignment)
}

func (h *Heap) allocate(n int) (Ref, error) {
	if n <= 0 {
		return NullRef, nil
	}

	asize := adjustSize(n)

	b, ok := h.findFit(asize)
	if ok {
		h.place(b, asize)
		return b, nil
	}

	extendBytes := asize
	if h.chunkSize > extendBytes {
		extendBytes = h.chunkSize
	}

	b, err := h.extend(extendBytes / WordSize)
	if err != nil {
		return NullRef, errors.Wrapf(err, "heap: no free block fits %d bytes and the backing region could not grow", n)
	}

	h.place(b, asize)
	return b, nil
}

// findFit searches size classes in ascending order starting at the class of
// the adjusted size, scanning each class's list most-recently-inserted first,
// and returns the first block large enough.
func (h *Heap) findFit(asize int) (Ref, bool) {
	for class := classOf(asize); class < ClassCount; class++ {
		for b := h.free.heads[class]; b != NullRef; b = h.free.nextOf(b) {
			if h.blockSize(b) >= asize {
				return b, true
			}
		}
	}

	return NullRef, false
}

// place marks the free block at b allocated for asize bytes. When the
// remainder is large enough to stand as a block of its own it is split off
// and routed back through the coalescer; otherwise the whole block is used.
func (h *Heap) place(b Ref, asize int) {
	csize := h.blockSize(b)
	h.free.remove(b, csize)

	if csize-asize >= MinBlockSize {
		h.setBlock(b, asize, true)

		remainder := b + Ref(asize)
		h.setBlock(remainder, csize-asize, false)
		h.coalesce(remainder)

		h.allocBytes += asize
	} else {
		h.setBlock(b, csize, true)
		h.allocBytes += csize
	}

	h.allocCount++
}

func (h *Heap) freeBlock(b Ref) {
	if b == NullRef {
		return
	}

	size := h.blockSize(b)
	h.setBlock(b, size, false)
	if segfit.PoisonOnFree {
		segfit.PoisonBytes(h.store.Bytes(int(b), size-blockOverhead))
	}

	h.allocCount--
	h.allocBytes -= size

	h.coalesce(b)
}

// coalesce merges the free block at b with whichever physical neighbors are
// also free and registers the result in the free-list table exactly once.
// Neighbors are removed from their lists before any boundary tag is
// rewritten, so list membership stays derivable from block size throughout.
func (h *Heap) coalesce(b Ref) Ref {
	size := h.blockSize(b)
	prevAllocated := b == h.start || h.tagAt(int(b)-blockOverhead).Allocated()
	next := h.nextBlock(b)
	nextAllocated := h.tagAt(int(next) - WordSize).Allocated()

	switch {
	case prevAllocated && nextAllocated:

	case prevAllocated:
		nextSize := h.blockSize(next)
		h.free.remove(next, nextSize)
		size += nextSize
		h.setBlock(b, size, false)

	case nextAllocated:
		prev := h.prevBlock(b)
		prevSize := h.blockSize(prev)
		h.free.remove(prev, prevSize)
		size += prevSize
		h.setBlock(prev, size, false)
		b = prev

	default:
		prev := h.prevBlock(b)
		prevSize := h.blockSize(prev)
		nextSize := h.blockSize(next)
		h.free.remove(prev, prevSize)
		h.free.remove(next, nextSize)
		size += prevSize + nextSize
		h.setBlock(prev, size, false)
		b = prev
	}

	h.free.insert(b, size)
	return b
}

// extend grows the backing region by the provided word count, rounded up to
// an even count to preserve alignment. The old epilogue header becomes the
// new free block's header and a fresh epilogue is written past it, then the
// new block is coalesced with the block that preceded the old epilogue.
func (h *Heap) extend(words int) (Ref, error) {
	if words%2 != 0 {
		words++
	}
	size := words * WordSize

	old, err := h.store.Grow(size)
	if err != nil {
		return NullRef, err
	}

	b := Ref(old)
	h.setBlock(b, size, false)
	h.putTag(int(b)+size-WordSize, PackTag(0, true))

	h.logger.Debug("Heap::extend", slog.Int("Bytes", size), slog.Int("RegionSize", h.store.Hi()-h.store.Lo()))

	return h.coalesce(b), nil
}
