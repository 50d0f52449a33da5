package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay an allocation trace",
		Long: `The run command replays an allocation trace against a fresh heap and
reports the resulting heap layout. Traces hold one operation per line:

  a <id> <size>   allocate <size> bytes as block <id>
  f <id>          free block <id>
  r <id> <size>   resize block <id> to <size> bytes

Example:
  segfitctl run workload.trace
  segfitctl run workload.trace --json
  segfitctl run workload.trace --file region.heap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args[0], false)
		},
	}
}

func runTrace(path string, validate bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ops, err := parseTrace(f)
	if err != nil {
		return errors.Wrapf(err, "cannot parse %s", path)
	}

	h, closeStore, err := newHeap()
	if err != nil {
		return err
	}
	defer closeStore()

	if err = replay(h, ops, validate); err != nil {
		return err
	}

	if validate {
		if err = h.Validate(); err != nil {
			return err
		}
	}

	return printStats(h)
}
