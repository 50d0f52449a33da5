package heap

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/memkit/segfit"
)

// CreateFlags indicate specific heap behaviors to activate or deactivate
type CreateFlags int32

const (
	// HeapExternallySynchronized ensures that this heap will not be synchronized internally.
	// The consumer must guarantee it is used from only one goroutine at a time or is
	// synchronized by some other mechanism, but performance may improve because the internal
	// mutex is not used.
	HeapExternallySynchronized CreateFlags = 1 << iota
)

func (f CreateFlags) String() string {
	if f&HeapExternallySynchronized != 0 {
		return "HeapExternallySynchronized"
	}
	return ""
}

const (
	// DefaultChunkSize is the value used as the ChunkSize when none is provided
	// via CreateOptions.
	DefaultChunkSize = 32
	// DefaultInitialSize is the value used as the InitialSize when none is provided
	// via CreateOptions.
	DefaultInitialSize = 256
)

// CreateOptions contains optional settings when creating a heap
type CreateOptions struct {
	// Flags indicates specific heap behaviors to activate or deactivate
	Flags CreateFlags
	// ChunkSize is the minimum number of bytes the backing region is grown by when an
	// allocation cannot be placed in any existing free block. It must be a power of two
	// no smaller than MinBlockSize.
	ChunkSize int
	// InitialSize is the number of bytes of free space the heap is primed with at
	// creation, before any allocation has been made.
	InitialSize int
}

// New creates a Heap over the provided Store. The store must be empty: the heap
// writes its region framing (alignment padding, prologue, and epilogue) at the
// low end and then primes the region with options.InitialSize bytes of free
// space.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, store Store, options CreateOptions) (*Heap, error) {
	chunkSize := options.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	err := segfit.CheckPow2(chunkSize, "options.ChunkSize")
	if err != nil {
		return nil, err
	}
	if chunkSize < MinBlockSize {
		return nil, errors.Newf("options.ChunkSize is %d, but it must be at least the minimum block size %d", chunkSize, MinBlockSize)
	}

	initialSize := options.InitialSize
	if initialSize == 0 {
		initialSize = DefaultInitialSize
	}
	if initialSize < MinBlockSize {
		return nil, errors.Newf("options.InitialSize is %d, but it must be at least the minimum block size %d", initialSize, MinBlockSize)
	}
	initialSize = segfit.AlignUp(initialSize, Alignment)

	if store.Hi() != store.Lo() {
		return nil, errors.New("the provided store is not empty")
	}

	h := &Heap{
		logger:      logger,
		store:       store,
		createFlags: options.Flags,
		chunkSize:   chunkSize,
		free:        freeList{store: store},
	}
	h.mutex.UseMutex = options.Flags&HeapExternallySynchronized == 0

	base, err := store.Grow(4 * WordSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not acquire space for the region frame")
	}

	// Alignment padding, prologue header/footer, epilogue header. The prologue
	// and epilogue are permanently allocated sentinels so neighbor lookups never
	// need bounds checks.
	store.PutWord(base, 0)
	h.putTag(base+WordSize, PackTag(blockOverhead, true))
	h.putTag(base+2*WordSize, PackTag(blockOverhead, true))
	h.putTag(base+3*WordSize, PackTag(0, true))
	h.start = Ref(base + 4*WordSize)

	_, err = h.extend(initialSize / WordSize)
	if err != nil {
		return nil, err
	}

	return h, nil
}
