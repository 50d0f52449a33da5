package heap

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/memkit/segfit/arena"
)

func TestExtendRoundsOddWordCounts(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout))
	store := arena.New(0)

	h, err := New(logger, store, CreateOptions{})
	require.NoError(t, err)

	before := store.Hi()

	// 5 words round up to 6, growing the region by 48 bytes so the new span
	// keeps block sizes 16-byte aligned.
	b, err := h.extend(5)
	require.NoError(t, err)
	require.Equal(t, before+48, store.Hi())

	// The new span merges with the primed free block that preceded the old
	// epilogue.
	require.Equal(t, h.start, b)
	require.Equal(t, 304, h.blockSize(b))
	require.NoError(t, h.Validate())
}
