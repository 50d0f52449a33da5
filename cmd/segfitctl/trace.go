package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"

	"github.com/memkit/segfit/heap"
)

type traceOpKind int

const (
	opAllocate traceOpKind = iota
	opFree
	opResize
)

// traceOp is one line of an allocation trace. Traces name blocks by caller-
// chosen integer ids so frees and resizes can refer back to earlier
// allocations.
type traceOp struct {
	kind traceOpKind
	id   int
	size int
	line int
}

// parseTrace reads an allocation trace: one operation per line, with blank
// lines and #-comments ignored.
//
//	a <id> <size>   allocate <size> bytes as block <id>
//	f <id>          free block <id>
//	r <id> <size>   resize block <id> to <size> bytes
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		op := traceOp{line: line}

		var wantFields int
		switch fields[0] {
		case "a":
			op.kind = opAllocate
			wantFields = 3
		case "f":
			op.kind = opFree
			wantFields = 2
		case "r":
			op.kind = opResize
			wantFields = 3
		default:
			return nil, errors.Newf("line %d: unknown operation %q", line, fields[0])
		}

		if len(fields) != wantFields {
			return nil, errors.Newf("line %d: operation %q takes %d arguments", line, fields[0], wantFields-1)
		}

		var err error
		op.id, err = strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Newf("line %d: invalid block id %q", line, fields[1])
		}

		if wantFields == 3 {
			op.size, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Newf("line %d: invalid size %q", line, fields[2])
			}
		}

		ops = append(ops, op)
	}

	return ops, scanner.Err()
}

// replay applies a parsed trace to the heap, resolving block ids through a
// live-reference table. With validate set, the heap is checked for
// consistency after every operation.
func replay(h *heap.Heap, ops []traceOp, validate bool) error {
	refs := swiss.NewMap[int, heap.Ref](64)

	for _, op := range ops {
		switch op.kind {
		case opAllocate:
			ref, err := h.Allocate(op.size)
			if err != nil {
				return errors.Wrapf(err, "line %d", op.line)
			}
			refs.Put(op.id, ref)

		case opFree:
			ref, ok := refs.Get(op.id)
			if !ok {
				return errors.Newf("line %d: free of unknown block id %d", op.line, op.id)
			}
			h.Free(ref)
			refs.Delete(op.id)

		case opResize:
			ref, ok := refs.Get(op.id)
			if !ok {
				return errors.Newf("line %d: resize of unknown block id %d", op.line, op.id)
			}

			newRef, err := h.Resize(ref, op.size)
			if err != nil {
				return errors.Wrapf(err, "line %d", op.line)
			}
			if op.size == 0 {
				refs.Delete(op.id)
			} else {
				refs.Put(op.id, newRef)
			}
		}

		if validate {
			if err := h.Validate(); err != nil {
				return errors.Wrapf(err, "heap inconsistent after line %d", op.line)
			}
		}
	}

	return nil
}
