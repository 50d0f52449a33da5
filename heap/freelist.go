package heap

import "fmt"

// freeList is the segregated free-block index: one intrusive doubly-linked
// list per size class. The links live inside the managed region itself, in
// the first two payload words of each free block, so the table costs nothing
// beyond the class head array.
type freeList struct {
	store Store
	heads [ClassCount]Ref
}

func (l *freeList) prevOf(b Ref) Ref {
	return Ref(l.store.Word(int(b)))
}

func (l *freeList) nextOf(b Ref) Ref {
	return Ref(l.store.Word(int(b) + WordSize))
}

func (l *freeList) setPrev(b Ref, prev Ref) {
	l.store.PutWord(int(b), uint64(prev))
}

func (l *freeList) setNext(b Ref, next Ref) {
	l.store.PutWord(int(b)+WordSize, uint64(next))
}

// insert registers a free block at the head of the list for its size class.
func (l *freeList) insert(b Ref, size int) {
	class := classOf(size)
	head := l.heads[class]

	l.setPrev(b, NullRef)
	l.setNext(b, head)
	if head != NullRef {
		l.setPrev(head, b)
	}
	l.heads[class] = b
}

// remove unlinks a registered free block. The class is derived from the
// block's recorded size, which cannot have changed since insert: callers
// remove a block from the table before rewriting its boundary tags. A block
// with a null prev link must therefore be the head of its class.
func (l *freeList) remove(b Ref, size int) {
	class := classOf(size)
	next := l.nextOf(b)

	if l.heads[class] == b {
		l.heads[class] = next
		if next != NullRef {
			l.setPrev(next, NullRef)
		}
		return
	}

	prev := l.prevOf(b)
	if prev == NullRef {
		panic(fmt.Sprintf("block at offset %d was not in the free list for size class %d", b, class))
	}

	l.setNext(prev, next)
	if next != NullRef {
		l.setPrev(next, prev)
	}
}
