package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/memkit/segfit/heap"
)

var (
	benchOps     int
	benchMaxSize int
	benchSeed    int64
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "Number of operations to run")
	cmd.Flags().IntVar(&benchMaxSize, "max-size", 4096, "Largest allocation request in bytes")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Seed for the workload generator")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic allocation workload",
		Long: `The bench command drives the heap with a seeded random mix of allocate,
free, and resize operations of random sizes, then frees every live block and
reports throughput and the final heap layout.

Example:
  segfitctl bench --ops 1000000 --max-size 16384`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

func runBench() error {
	h, closeStore, err := newHeap()
	if err != nil {
		return err
	}
	defer closeStore()

	rng := rand.New(rand.NewSource(benchSeed))
	live := make([]heap.Ref, 0, benchOps)

	start := time.Now()
	for i := 0; i < benchOps; i++ {
		switch action := rng.Intn(10); {
		case action < 6 || len(live) == 0:
			ref, err := h.Allocate(1 + rng.Intn(benchMaxSize))
			if err != nil {
				return err
			}
			live = append(live, ref)

		case action < 9:
			idx := rng.Intn(len(live))
			h.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]

		default:
			idx := rng.Intn(len(live))
			ref, err := h.Resize(live[idx], 1+rng.Intn(benchMaxSize))
			if err != nil {
				return err
			}
			live[idx] = ref
		}
	}
	for _, ref := range live {
		h.Free(ref)
	}
	elapsed := time.Since(start)

	if err = h.Validate(); err != nil {
		return err
	}

	fmt.Printf("%d operations in %s (%.0f ops/sec)\n", benchOps, elapsed, float64(benchOps)/elapsed.Seconds())
	return printStats(h)
}
