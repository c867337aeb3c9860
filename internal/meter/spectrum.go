package meter

import (
	"math/cmplx"

	"github.com/tphakala/go-hdspe/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
)

// DominantFrequency returns the frequency in Hz of the strongest spectral
// component of a block, ignoring DC. It returns 0 for blocks too short to
// analyse or without any AC content.
func DominantFrequency(x []float64, rate float64) float64 {
	if len(x) < minSpectrumSize {
		return 0
	}

	fft := fourier.NewFFT(len(x))
	coeff := fft.Coefficients(nil, x)

	best, bestMag := 0, 0.0
	for i := 1; i < len(coeff); i++ {
		if mag := cmplx.Abs(coeff[i]); mag > bestMag {
			best, bestMag = i, mag
		}
	}
	if best == 0 {
		return 0
	}
	return fft.Freq(best) * rate
}

// ChannelFrequency extracts one channel from interleaved frames and returns
// its dominant frequency.
func ChannelFrequency(frames []int32, channels, ch int, rate float64) float64 {
	if channels < 1 || ch < 0 || ch >= channels {
		return 0
	}
	n := len(frames) / channels
	raw := make([]int32, n)
	for i := range raw {
		raw[i] = frames[i*channels+ch]
	}
	return DominantFrequency(simdops.Normalize(make([]float64, n), raw), rate)
}
