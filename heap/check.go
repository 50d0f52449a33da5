package heap

import (
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"

	"github.com/memkit/segfit"
)

// Validate performs internal consistency checks on the heap: region framing,
// header/footer agreement, alignment, the no-adjacent-free invariant, and a
// cross-check of the size class lists against the physical block walk. It is
// read-only and never repairs anything. When the heap is functioning
// correctly it should not be possible for this method to return an error, but
// it may assist in diagnosing corruption caused by caller misuse.
func (h *Heap) Validate() error {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.validate()
}

// lockedValidator wraps a Heap whose operation lock is already held, so debug
// validation at operation entry can run without re-acquiring it.
type lockedValidator struct{ h *Heap }

func (v lockedValidator) Validate() error {
	return v.h.validate()
}

func (h *Heap) validate() error {
	lo := h.store.Lo()
	hi := h.store.Hi()

	prologue := h.tagAt(lo + WordSize)
	if prologue.Size() != blockOverhead || !prologue.Allocated() {
		return errors.Errorf("the prologue should be an allocated block of size %d, but its header is %#x", blockOverhead, uint64(prologue))
	}
	if h.tagAt(lo+2*WordSize) != prologue {
		return errors.New("the prologue header and footer do not match")
	}

	freeSeen := swiss.NewMap[Ref, int](ClassCount)
	var allocCount, allocBytes, freeCount int
	prevFree := false

	b := h.start
	for {
		headerOff := h.headerOf(b)
		if headerOff >= hi {
			return errors.Errorf("the block walk ran past the region end at offset %d", headerOff)
		}

		header := h.tagAt(headerOff)
		size := header.Size()
		if size == 0 {
			if !header.Allocated() {
				return errors.New("the epilogue is not marked allocated")
			}
			if headerOff != hi-WordSize {
				return errors.Errorf("the epilogue was found at offset %d, but the region ends at offset %d", headerOff, hi)
			}
			break
		}

		if int(b)%Alignment != 0 {
			return errors.Errorf("the block payload at offset %d is not %d-byte aligned", b, Alignment)
		}
		if size%Alignment != 0 {
			return errors.Errorf("the block at offset %d has size %d, which is not a multiple of %d", b, size, Alignment)
		}
		if size < MinBlockSize {
			return errors.Errorf("the block at offset %d has size %d, below the minimum block size %d", b, size, MinBlockSize)
		}

		footer := h.tagAt(int(b) + size - blockOverhead)
		if footer != header {
			return errors.Errorf("the block at offset %d has header %#x but footer %#x", b, uint64(header), uint64(footer))
		}

		if header.Allocated() {
			allocCount++
			allocBytes += size
			prevFree = false
		} else {
			if prevFree {
				return errors.Errorf("the block at offset %d and its physical predecessor are both free", b)
			}
			prevFree = true
			freeCount++
			freeSeen.Put(b, size)
		}

		b = h.nextBlock(b)
	}

	if allocCount != h.allocCount {
		return errors.Errorf("the heap has %d allocations recorded, but the walk found %d allocated blocks", h.allocCount, allocCount)
	}
	if allocBytes != h.allocBytes {
		return errors.Errorf("the heap has %d allocated bytes recorded, but the walk found %d", h.allocBytes, allocBytes)
	}

	listed := 0
	for class := 0; class < ClassCount; class++ {
		prev := NullRef
		for b := h.free.heads[class]; b != NullRef; b = h.free.nextOf(b) {
			size, ok := freeSeen.Get(b)
			if !ok {
				return errors.Errorf("the free list entry at offset %d is not a free block in the physical walk, or is registered twice", b)
			}
			freeSeen.Delete(b)

			if classOf(size) != class {
				return errors.Errorf("the block at offset %d with size %d is registered in size class %d, but belongs in class %d", b, size, class, classOf(size))
			}
			if h.free.prevOf(b) != prev {
				return errors.Errorf("the block at offset %d records a previous free block at offset %d, but the list reached it from offset %d", b, h.free.prevOf(b), prev)
			}

			prev = b
			listed++
		}
	}

	if listed != freeCount {
		return errors.Errorf("the physical walk found %d free blocks, but the size class lists hold %d", freeCount, listed)
	}

	return nil
}

// VisitBlocks calls the provided callback once for each block between the
// prologue and epilogue, in physical order.
func (h *Heap) VisitBlocks(handleBlock func(offset Ref, size int, allocated bool) error) error {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return h.visitBlocks(handleBlock)
}

func (h *Heap) visitBlocks(handleBlock func(offset Ref, size int, allocated bool) error) error {
	for b := h.start; ; b = h.nextBlock(b) {
		header := h.tagAt(h.headerOf(b))
		if header.Size() == 0 {
			return nil
		}

		err := handleBlock(b, header.Size(), header.Allocated())
		if err != nil {
			return err
		}
	}
}

// AddStatistics sums this heap's allocation statistics into the statistics
// currently present in the provided segfit.Statistics object.
func (h *Heap) AddStatistics(stats *segfit.Statistics) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	stats.RegionCount++
	stats.RegionBytes += h.store.Hi() - h.store.Lo()
	stats.AllocationCount += h.allocCount
	stats.AllocationBytes += h.allocBytes
}

// AddDetailedStatistics walks every block and sums this heap's statistics into
// the statistics currently present in the provided segfit.DetailedStatistics
// object.
func (h *Heap) AddDetailedStatistics(stats *segfit.DetailedStatistics) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	h.addDetailedStatistics(stats)
}

func (h *Heap) addDetailedStatistics(stats *segfit.DetailedStatistics) {
	stats.RegionCount++
	stats.RegionBytes += h.store.Hi() - h.store.Lo()

	_ = h.visitBlocks(func(offset Ref, size int, allocated bool) error {
		if allocated {
			stats.AddAllocation(size)
		} else {
			stats.AddUnusedRange(size)
		}
		return nil
	})
}

// HeapJsonData populates a json object with totals for the heap and an entry
// for every block in physical order.
func (h *Heap) HeapJsonData(json jwriter.ObjectState) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var stats segfit.DetailedStatistics
	stats.Clear()
	h.addDetailedStatistics(&stats)

	json.Name("TotalBytes").Int(stats.RegionBytes)
	json.Name("UnusedBytes").Int(stats.RegionBytes - stats.AllocationBytes)
	json.Name("Allocations").Int(stats.AllocationCount)
	json.Name("UnusedRanges").Int(stats.UnusedRangeCount)

	arrayState := json.Name("Blocks").Array()
	defer arrayState.End()

	_ = h.visitBlocks(func(offset Ref, size int, allocated bool) error {
		obj := arrayState.Object()
		obj.Name("Offset").Int(int(offset))
		obj.Name("Size").Int(size)
		obj.Name("Allocated").Bool(allocated)
		obj.End()
		return nil
	})
}

// DebugLogAllocations calls the provided callback with the provided logger
// once for each allocated block. It is intended for leak diagnostics at heap
// teardown.
func (h *Heap) DebugLogAllocations(logger *slog.Logger, logFunc func(log *slog.Logger, offset int, size int)) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_ = h.visitBlocks(func(offset Ref, size int, allocated bool) error {
		if allocated {
			logFunc(logger, int(offset), size)
		}
		return nil
	})
}
