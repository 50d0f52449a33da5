package main

import (
	"fmt"
	"os"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/memkit/segfit"
	"github.com/memkit/segfit/heap"
)

var (
	// Global flags
	verbose     bool
	jsonOut     bool
	maxRegion   int
	chunkSize   int
	initialSize int
	regionFile  string
)

var rootCmd = &cobra.Command{
	Use:   "segfitctl",
	Short: "Drive and inspect segregated-fit heaps",
	Long: `segfitctl replays allocation traces against a segregated-fit heap,
validates heap consistency, and benchmarks synthetic workloads. The heap is
backed by an in-memory region by default, or by a memory-mapped file when
--file is provided.`,
	Version: "0.1.0",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging of heap operations")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().IntVar(&maxRegion, "max-region", 0, "Cap the backing region at this many bytes (0 uses the default cap)")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 0, "Minimum growth increment in bytes, a power of two (0 uses the default)")
	rootCmd.PersistentFlags().IntVar(&initialSize, "initial-size", 0, "Bytes of free space to prime the heap with (0 uses the default)")
	rootCmd.PersistentFlags().StringVar(&regionFile, "file", "", "Back the heap with a memory-mapped file at this path")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.HandlerOptions{Level: slog.LevelDebug}.NewTextHandler(os.Stderr))
	}
	return slog.New(slog.NewTextHandler(os.Stderr))
}

// newHeap builds a heap over the store selected by the global flags. The
// returned closer releases the store and must be called even on error paths.
func newHeap() (*heap.Heap, func() error, error) {
	store, closeStore, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	h, err := heap.New(newLogger(), store, heap.CreateOptions{
		ChunkSize:   chunkSize,
		InitialSize: initialSize,
	})
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	return h, closeStore, nil
}

func printStats(h *heap.Heap) error {
	if jsonOut {
		w := jwriter.NewWriter()
		obj := w.Object()
		h.HeapJsonData(obj)
		obj.End()

		if err := w.Error(); err != nil {
			return err
		}
		fmt.Println(string(w.Bytes()))
		return nil
	}

	var stats segfit.DetailedStatistics
	stats.Clear()
	h.AddDetailedStatistics(&stats)

	fmt.Printf("Region bytes:  %d\n", stats.RegionBytes)
	fmt.Printf("Allocations:   %d (%d bytes)\n", stats.AllocationCount, stats.AllocationBytes)
	if stats.UnusedRangeCount > 0 {
		fmt.Printf("Free ranges:   %d (%d bytes, smallest %d, largest %d)\n", stats.UnusedRangeCount, stats.UnusedRangeBytes, stats.UnusedRangeSizeMin, stats.UnusedRangeSizeMax)
	} else {
		fmt.Printf("Free ranges:   0\n")
	}

	return nil
}
