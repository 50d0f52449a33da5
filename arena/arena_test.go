package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/segfit/arena"
)

func TestArenaGrowReturnsOldBound(t *testing.T) {
	a := arena.New(0)

	off, err := a.Grow(64)
	require.NoError(t, err)
	require.Zero(t, off)
	require.Equal(t, 64, a.Hi())

	off, err = a.Grow(32)
	require.NoError(t, err)
	require.Equal(t, 64, off)
	require.Equal(t, 96, a.Hi())
	require.Zero(t, a.Lo())
}

func TestArenaGrowEnforcesLimit(t *testing.T) {
	a := arena.New(128)

	_, err := a.Grow(100)
	require.NoError(t, err)

	_, err = a.Grow(100)
	require.ErrorIs(t, err, arena.ErrRegionLimit)
	require.Equal(t, 100, a.Hi())

	_, err = a.Grow(-1)
	require.Error(t, err)
}

func TestArenaWordRoundTrip(t *testing.T) {
	a := arena.New(0)

	_, err := a.Grow(64)
	require.NoError(t, err)

	a.PutWord(8, 0xdeadbeefcafe)
	require.Equal(t, uint64(0xdeadbeefcafe), a.Word(8))

	// Words are little-endian in the region.
	require.Equal(t, byte(0xfe), a.Bytes(8, 8)[0])
}

func TestArenaBytesWindowIsMutable(t *testing.T) {
	a := arena.New(0)

	_, err := a.Grow(64)
	require.NoError(t, err)

	window := a.Bytes(16, 8)
	window[0] = 0x7f
	require.Equal(t, byte(0x7f), a.Bytes(16, 8)[0])
}
