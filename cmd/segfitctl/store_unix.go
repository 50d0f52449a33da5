//go:build unix

package main

import (
	"github.com/memkit/segfit/arena"
	"github.com/memkit/segfit/heap"
)

func openStore() (heap.Store, func() error, error) {
	if regionFile == "" {
		return arena.New(maxRegion), func() error { return nil }, nil
	}

	fa, err := arena.OpenFile(regionFile, maxRegion)
	if err != nil {
		return nil, nil, err
	}
	return fa, fa.Close, nil
}
