package heap_test

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/memkit/segfit"
	"github.com/memkit/segfit/arena"
	"github.com/memkit/segfit/heap"
)

func newTestHeap(t *testing.T, options heap.CreateOptions) (*heap.Heap, *arena.Arena) {
	logger := slog.New(slog.NewTextHandler(os.Stdout))
	store := arena.New(0)

	h, err := heap.New(logger, store, options)
	require.NoError(t, err)

	return h, store
}

func detailedStats(h *heap.Heap) segfit.DetailedStatistics {
	var stats segfit.DetailedStatistics
	stats.Clear()
	h.AddDetailedStatistics(&stats)
	return stats
}

func TestNewPrimesFreeSpace(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	require.NoError(t, h.Validate())
	require.Equal(t, segfit.DetailedStatistics{
		Statistics: segfit.Statistics{
			RegionCount:     1,
			RegionBytes:     288,
			AllocationCount: 0,
			AllocationBytes: 0,
		},
		UnusedRangeCount:   1,
		UnusedRangeBytes:   256,
		AllocationSizeMin:  math.MaxInt,
		AllocationSizeMax:  0,
		UnusedRangeSizeMin: 256,
		UnusedRangeSizeMax: 256,
	}, detailedStats(h))
}

func TestAllocateMinimumBlock(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	b, err := h.Allocate(1)
	require.NoError(t, err)
	require.NotEqual(t, heap.NullRef, b)
	require.Zero(t, int(b)%heap.Alignment)
	require.Equal(t, heap.MinBlockSize-16, h.PayloadSize(b))

	require.NoError(t, h.Validate())
	require.Equal(t, segfit.DetailedStatistics{
		Statistics: segfit.Statistics{
			RegionCount:     1,
			RegionBytes:     288,
			AllocationCount: 1,
			AllocationBytes: 32,
		},
		UnusedRangeCount:   1,
		UnusedRangeBytes:   224,
		AllocationSizeMin:  32,
		AllocationSizeMax:  32,
		UnusedRangeSizeMin: 224,
		UnusedRangeSizeMax: 224,
	}, detailedStats(h))
}

func TestAllocateZeroBytesReturnsNull(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	b, err := h.Allocate(0)
	require.NoError(t, err)
	require.Equal(t, heap.NullRef, b)

	b, err = h.Allocate(-5)
	require.NoError(t, err)
	require.Equal(t, heap.NullRef, b)

	require.NoError(t, h.Validate())
}

func TestAllocateReturnsAlignedPayloads(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	for _, size := range []int{1, 7, 16, 17, 100, 1000, 5000} {
		b, err := h.Allocate(size)
		require.NoError(t, err)
		require.NotEqual(t, heap.NullRef, b)
		require.Zero(t, int(b)%heap.Alignment, "allocation of %d bytes", size)
		require.GreaterOrEqual(t, h.PayloadSize(b), size)
		require.NoError(t, h.Validate())
	}
}

func TestFreeMergesAdjacentBlocks(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	a, err := h.Allocate(100)
	require.NoError(t, err)
	b, err := h.Allocate(100)
	require.NoError(t, err)

	h.Free(a)
	require.NoError(t, h.Validate())
	h.Free(b)
	require.NoError(t, h.Validate())

	// The two 128-byte blocks must have merged back into the primed 256-byte
	// free span.
	require.Equal(t, segfit.DetailedStatistics{
		Statistics: segfit.Statistics{
			RegionCount:     1,
			RegionBytes:     288,
			AllocationCount: 0,
			AllocationBytes: 0,
		},
		UnusedRangeCount:   1,
		UnusedRangeBytes:   256,
		AllocationSizeMin:  math.MaxInt,
		AllocationSizeMax:  0,
		UnusedRangeSizeMin: 256,
		UnusedRangeSizeMax: 256,
	}, detailedStats(h))
}

func TestAllocateReusesFreedBlock(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	a, err := h.Allocate(100)
	require.NoError(t, err)

	h.Free(a)

	b, err := h.Allocate(100)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.NoError(t, h.Validate())
}

func TestAllocateGrowsRegion(t *testing.T) {
	h, store := newTestHeap(t, heap.CreateOptions{})

	b, err := h.Allocate(1000)
	require.NoError(t, err)
	require.NotEqual(t, heap.NullRef, b)
	require.GreaterOrEqual(t, h.PayloadSize(b), 1000)

	// The 1024-byte adjusted request exceeded the primed 256 bytes, so the
	// region grew by exactly the adjusted size.
	require.Equal(t, 288+1024, store.Hi())
	require.NoError(t, h.Validate())
}

func TestAllocateZeroed(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	a, err := h.Allocate(100)
	require.NoError(t, err)

	data := h.Bytes(a, 100)
	for i := range data {
		data[i] = 0xab
	}
	h.Free(a)

	z, err := h.AllocateZeroed(10, 10)
	require.NoError(t, err)
	require.Equal(t, a, z)

	for i, value := range h.Bytes(z, 100) {
		require.Zero(t, value, "byte %d", i)
	}

	none, err := h.AllocateZeroed(0, 16)
	require.NoError(t, err)
	require.Equal(t, heap.NullRef, none)
}

func TestGrowthFailureLeavesHeapIntact(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout))
	store := arena.New(320)

	h, err := heap.New(logger, store, heap.CreateOptions{})
	require.NoError(t, err)

	a, err := h.Allocate(200)
	require.NoError(t, err)

	data := h.Bytes(a, 200)
	for i := range data {
		data[i] = byte(i)
	}

	b, err := h.Allocate(500)
	require.Error(t, err)
	require.ErrorIs(t, err, arena.ErrRegionLimit)
	require.Equal(t, heap.NullRef, b)

	for i, value := range h.Bytes(a, 200) {
		require.Equal(t, byte(i), value, "byte %d", i)
	}

	require.NoError(t, h.Validate())

	var stats segfit.Statistics
	h.AddStatistics(&stats)
	require.Equal(t, segfit.Statistics{
		RegionCount:     1,
		RegionBytes:     288,
		AllocationCount: 1,
		AllocationBytes: 224,
	}, stats)
}

func TestConcurrentReadersDuringGrowth(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{})

	a, err := h.Allocate(64)
	require.NoError(t, err)

	// Grow and shrink the heap from another goroutine while readers run, so
	// the race detector can catch any reader reaching the region unlocked.
	done := make(chan error, 1)
	go func() {
		for i := 0; i < 200; i++ {
			b, err := h.Allocate(4096)
			if err != nil {
				done <- err
				return
			}
			h.Free(b)
		}
		done <- nil
	}()

	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			require.NoError(t, h.Validate())
			return
		default:
		}

		require.Equal(t, 64, h.PayloadSize(a))
		require.Len(t, h.Bytes(a, 8), 8)

		var stats segfit.Statistics
		h.AddStatistics(&stats)
		require.GreaterOrEqual(t, stats.AllocationCount, 1)
	}
}

func TestExternallySynchronizedHeap(t *testing.T) {
	h, _ := newTestHeap(t, heap.CreateOptions{
		Flags: heap.HeapExternallySynchronized,
	})

	b, err := h.Allocate(64)
	require.NoError(t, err)
	h.Free(b)
	require.NoError(t, h.Validate())
}
