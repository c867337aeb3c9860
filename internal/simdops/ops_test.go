package simdops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-hdspe/internal/testutil"
)

func TestNormalize(t *testing.T) {
	src := []int32{0, math.MinInt32, math.MaxInt32, 1 << 30, -(1 << 29)}
	got := Normalize(make([]float64, 8), src)

	require.Len(t, got, len(src))
	want := []float64{0, -1, float64(math.MaxInt32) / FullScale, 0.5, -0.25}
	for i := range want {
		assert.InDelta(t, want[i], got[i], testutil.DefaultTolerance, "sample %d", i)
	}
}

func TestNormalize_ReusesDst(t *testing.T) {
	dst := make([]float64, 4)
	got := Normalize(dst, []int32{1 << 30, -(1 << 30)})
	require.Len(t, got, 2)
	assert.Same(t, &dst[0], &got[0])
	assert.InDelta(t, 0.5, got[0], testutil.DefaultTolerance)
	assert.InDelta(t, -0.5, got[1], testutil.DefaultTolerance)
}

func TestMeanSquareAndMean(t *testing.T) {
	x := []float64{0.5, -0.5, 0.5, -0.5}
	assert.InDelta(t, 0.25, MeanSquare(x), testutil.DefaultTolerance)
	assert.InDelta(t, 0.0, Mean(x), testutil.DefaultTolerance)

	y := []float64{1, 1, 1, 1}
	assert.InDelta(t, 1.0, MeanSquare(y), testutil.DefaultTolerance)
	assert.InDelta(t, 1.0, Mean(y), testutil.DefaultTolerance)

	assert.Zero(t, MeanSquare(nil))
	assert.Zero(t, Mean(nil))
}

func TestCPU(t *testing.T) {
	assert.NotEmpty(t, CPU())
}
