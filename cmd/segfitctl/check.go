package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay an allocation trace with full validation",
		Long: `The check command replays an allocation trace like run, but walks the
whole heap after every operation, verifying header/footer agreement, block
alignment, the no-adjacent-free invariant, and free-list consistency. It is
slow and intended for debugging workloads that corrupt the heap.

Example:
  segfitctl check workload.trace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args[0], true)
		},
	}
}
