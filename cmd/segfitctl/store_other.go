//go:build !unix

package main

import (
	"github.com/cockroachdb/errors"

	"github.com/memkit/segfit/arena"
	"github.com/memkit/segfit/heap"
)

func openStore() (heap.Store, func() error, error) {
	if regionFile != "" {
		return nil, nil, errors.New("file-backed regions require a unix platform")
	}
	return arena.New(maxRegion), func() error { return nil }, nil
}
