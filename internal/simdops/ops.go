// Package simdops provides SIMD-accelerated vector operations for float64
// sample blocks and converts 32-bit integer samples into them.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// FullScale is the magnitude of the most negative 32-bit sample.
const FullScale = 1 << 31

// ops holds the SIMD kernels the helpers dispatch to.
type ops struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []float64) float64

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)
}

var ops64 = ops{
	DotProductUnsafe: f64.DotProductUnsafe,
	Sum:              f64.Sum,
	Scale:            f64.Scale,
}

// Normalize converts 32-bit samples to the range [-1, 1). dst must be at
// least as long as src; the converted prefix of dst is returned.
func Normalize(dst []float64, src []int32) []float64 {
	dst = dst[:len(src)]
	for i, s := range src {
		dst[i] = float64(s)
	}
	ops64.Scale(dst, dst, 1/float64(FullScale))
	return dst
}

// MeanSquare returns the mean of the squared samples.
func MeanSquare(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return ops64.DotProductUnsafe(x, x) / float64(len(x))
}

// Mean returns the arithmetic mean.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return ops64.Sum(x) / float64(len(x))
}

// CPU describes the SIMD features the kernels run with.
func CPU() string {
	if info := cpu.Info(); info != "" {
		return info
	}
	return "generic"
}
