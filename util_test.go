package segfit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memkit/segfit"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, segfit.AlignUp(0, 16))
	require.Equal(t, 16, segfit.AlignUp(1, 16))
	require.Equal(t, 16, segfit.AlignUp(16, 16))
	require.Equal(t, 32, segfit.AlignUp(17, 16))
	require.Equal(t, 1024, segfit.AlignUp(1017, 8))
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, 0, segfit.AlignDown(15, 16))
	require.Equal(t, 16, segfit.AlignDown(16, 16))
	require.Equal(t, 16, segfit.AlignDown(31, 16))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, segfit.CheckPow2(32, "value"))
	require.NoError(t, segfit.CheckPow2(1, "value"))
	require.ErrorIs(t, segfit.CheckPow2(48, "value"), segfit.PowerOfTwoError)
}
