// Package meter measures the level of interleaved 32-bit sample streams,
// one reading per channel.
package meter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-hdspe/internal/simdops"
	"gonum.org/v1/gonum/floats"
)

// ErrChannels indicates a meter without channels or a block that does not
// hold whole frames.
var ErrChannels = errors.New("invalid channel count")

// Level is the accumulated reading of one channel. Values are relative to
// full scale.
type Level struct {
	Peak float64 // Largest absolute sample
	RMS  float64 // Root mean square
	DC   float64 // Mean, the DC offset
	N    int     // Samples measured
}

// PeakDB returns the peak in dBFS.
func (l Level) PeakDB() float64 {
	return DBFS(l.Peak)
}

// RMSDB returns the RMS level in dBFS.
func (l Level) RMSDB() float64 {
	return DBFS(l.RMS)
}

// Silent reports whether every measured sample was zero.
func (l Level) Silent() bool {
	return l.Peak == 0
}

// DBFS converts a linear level to decibels relative to full scale. Zero
// and negative levels map to Floor.
func DBFS(x float64) float64 {
	if x <= 0 {
		return Floor
	}
	return max(20*math.Log10(x), Floor)
}

type accum struct {
	peak   float64
	sumSq  float64
	sum    float64
	frames int
}

// Meter accumulates levels across blocks of interleaved frames.
type Meter struct {
	channels int
	accums   []accum
	raw      []int32
	scratch  []float64
}

// New creates a meter for the given channel count.
func New(channels int) (*Meter, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrChannels, channels)
	}
	return &Meter{
		channels: channels,
		accums:   make([]accum, channels),
	}, nil
}

// Channels returns the channel count.
func (m *Meter) Channels() int {
	return m.channels
}

// Write adds a block of interleaved frames.
func (m *Meter) Write(frames []int32) error {
	if len(frames)%m.channels != 0 {
		return fmt.Errorf("%w: %d samples is not a multiple of %d channels",
			ErrChannels, len(frames), m.channels)
	}
	n := len(frames) / m.channels
	if n == 0 {
		return nil
	}

	if cap(m.raw) < n {
		m.raw = make([]int32, n)
		m.scratch = make([]float64, n)
	}
	raw, x := m.raw[:n], m.scratch[:n]

	for ch := range m.channels {
		for i := range raw {
			raw[i] = frames[i*m.channels+ch]
		}
		simdops.Normalize(x, raw)

		a := &m.accums[ch]
		a.peak = max(a.peak, floats.Max(x), -floats.Min(x))
		// Block means are weighted back to sums so blocks of any size add up.
		a.sumSq += simdops.MeanSquare(x) * float64(n)
		a.sum += simdops.Mean(x) * float64(n)
		a.frames += n
	}
	return nil
}

// Levels returns the reading of every channel.
func (m *Meter) Levels() []Level {
	out := make([]Level, m.channels)
	for ch, a := range m.accums {
		if a.frames == 0 {
			continue
		}
		out[ch] = Level{
			Peak: a.peak,
			RMS:  math.Sqrt(a.sumSq / float64(a.frames)),
			DC:   a.sum / float64(a.frames),
			N:    a.frames,
		}
	}
	return out
}

// Reset drops every accumulated reading.
func (m *Meter) Reset() {
	clear(m.accums)
}
