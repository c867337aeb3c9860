package simdops

import (
	"testing"

	"github.com/tphakala/simd/f64"
)

const benchBlock = 256 // One 256-sample period

func benchSamples() []int32 {
	s := make([]int32, benchBlock)
	for i := range s {
		s[i] = int32(i*0x10000 - 0x800000)
	}
	return s
}

// BenchmarkDirectF64DotProduct measures direct SIMD call overhead.
func BenchmarkDirectF64DotProduct(b *testing.B) {
	x := Normalize(make([]float64, benchBlock), benchSamples())

	b.ReportAllocs()
	for b.Loop() {
		_ = f64.DotProductUnsafe(x, x)
	}
}

// BenchmarkMeanSquare measures the call through the kernel table.
func BenchmarkMeanSquare(b *testing.B) {
	x := Normalize(make([]float64, benchBlock), benchSamples())

	b.ReportAllocs()
	for b.Loop() {
		_ = MeanSquare(x)
	}
}

func BenchmarkNormalize(b *testing.B) {
	src := benchSamples()
	dst := make([]float64, benchBlock)

	b.ReportAllocs()
	for b.Loop() {
		_ = Normalize(dst, src)
	}
}
