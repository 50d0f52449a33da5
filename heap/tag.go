package heap

const (
	// WordSize is the size in bytes of a header or footer word.
	WordSize = 8
	// Alignment is the boundary that payload offsets and block sizes are rounded to.
	Alignment = 16
	// MinBlockSize is the smallest valid block: header and footer overhead plus a
	// payload large enough to hold the two free-list link words.
	MinBlockSize = 32

	// blockOverhead is the combined size of a block's header and footer.
	blockOverhead = 16

	// tagFlagBits masks the low bits of a Tag that hold flags rather than size.
	// Sizes are always 16-byte aligned, so the two fields never collide.
	tagFlagBits     = 0xf
	tagAllocatedBit = 0x1
)

// Ref is the offset of a block payload within a Store. Offset 0 holds the
// region's alignment padding word and is never a payload, so NullRef is
// unambiguous.
type Ref int

// NullRef is the null payload reference. It is returned from operations that
// are defined to produce no block, such as zero-byte allocations.
const NullRef Ref = 0

// Tag is a packed boundary word holding a block's size and allocated flag.
// Every block carries a Tag immediately before its payload (the header) and an
// identical Tag immediately after it (the footer), allowing physical neighbors
// to be located in either direction without an index of allocated blocks.
type Tag uint64

// PackTag packs a block size and allocated flag into a single boundary word.
// The size must be a multiple of Alignment.
func PackTag(size int, allocated bool) Tag {
	t := Tag(size)
	if allocated {
		t |= tagAllocatedBit
	}
	return t
}

// Size returns the block size recorded in the tag.
func (t Tag) Size() int {
	return int(t &^ tagFlagBits)
}

// Allocated returns whether the tag marks its block as allocated.
func (t Tag) Allocated() bool {
	return t&tagAllocatedBit != 0
}

func (h *Heap) tagAt(off int) Tag {
	return Tag(h.store.Word(off))
}

func (h *Heap) putTag(off int, t Tag) {
	h.store.PutWord(off, uint64(t))
}

func (h *Heap) blockSize(b Ref) int {
	return h.tagAt(int(b) - WordSize).Size()
}

func (h *Heap) headerOf(b Ref) int {
	return int(b) - WordSize
}

// setBlock rewrites both boundary tags of the block at b.
func (h *Heap) setBlock(b Ref, size int, allocated bool) {
	t := PackTag(size, allocated)
	h.putTag(int(b)-WordSize, t)
	h.putTag(int(b)+size-blockOverhead, t)
}

func (h *Heap) nextBlock(b Ref) Ref {
	return b + Ref(h.blockSize(b))
}

func (h *Heap) prevBlock(b Ref) Ref {
	return b - Ref(h.tagAt(int(b)-blockOverhead).Size())
}
