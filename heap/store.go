package heap

//go:generate mockgen -destination mocks/store.go -package mocks github.com/memkit/segfit/heap Store

// Store is the backing region a Heap manages blocks within. It grows
// monotonically and never relocates previously granted offsets, so a Ref
// handed out by the Heap stays valid for the life of the Store.
//
// arena.Arena and arena.FileArena are the provided implementations.
type Store interface {
	// Grow extends the region by n bytes and returns the offset where the new
	// span begins (the previous upper bound). A failed Grow must leave the
	// region untouched.
	Grow(n int) (int, error)
	// Lo returns the lower bound offset of the region.
	Lo() int
	// Hi returns the current upper bound offset of the region.
	Hi() int
	// Word reads the little-endian machine word at the provided offset.
	Word(off int) uint64
	// PutWord writes a little-endian machine word at the provided offset.
	PutWord(off int, w uint64)
	// Bytes returns a mutable window of n bytes starting at the provided offset.
	Bytes(off, n int) []byte
}
