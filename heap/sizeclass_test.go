package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassOfBoundaries(t *testing.T) {
	cases := []struct {
		size  int
		class int
	}{
		{0, 0}, {16, 0}, {31, 0},
		{32, 1}, {63, 1},
		{64, 2}, {127, 2},
		{128, 3}, {255, 3},
		{256, 4}, {511, 4},
		{512, 5}, {1023, 5},
		{1024, 6}, {2047, 6},
		{2048, 7}, {4095, 7},
		{4096, 8}, {8191, 8},
		{8192, 9}, {16383, 9},
		{16384, 10}, {1 << 20, 10},
	}

	for _, c := range cases {
		require.Equal(t, c.class, classOf(c.size), "size %d", c.size)
	}
}

func TestAdjustSize(t *testing.T) {
	require.Equal(t, MinBlockSize, adjustSize(1))
	require.Equal(t, MinBlockSize, adjustSize(16))
	require.Equal(t, 48, adjustSize(17))
	require.Equal(t, 128, adjustSize(100))
	require.Equal(t, 1040, adjustSize(1024))
}
