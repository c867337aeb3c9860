package clock

import (
	"github.com/tphakala/go-hdspe/internal/hw"
)

// Latency is a supported period size. N is the value programmed into the
// latency field of the control register.
type Latency struct {
	N      uint32
	Period uint32
	Ms     float64
}

var latencies = []Latency{
	{7, 32, 0.7},
	{0, 64, 1.5},
	{1, 128, 3},
	{2, 256, 6},
	{3, 512, 12},
	{4, 1024, 23},
	{5, 2048, 46},
	{6, 4096, 93},
}

// Latencies returns the supported period sizes in ascending order.
func Latencies() []Latency {
	return append([]Latency(nil), latencies...)
}

// Block size bounds in bytes.
const (
	MinBlockBytes = MinPeriod * SampleBytes
	MaxBlockBytes = MaxPeriod * SampleBytes
)

// ResolveBlockSize clamps a requested block size in bytes to the supported
// range and returns the nearest period.
func ResolveBlockSize(bytes uint32) Latency {
	bytes = min(max(bytes, MinBlockBytes), MaxBlockBytes)
	return ResolvePeriod(bytes / SampleBytes)
}

// ResolvePeriod returns the table period nearest to a size in samples.
func ResolvePeriod(samples uint32) Latency {
	return latencies[nearest(len(latencies), func(i int) uint32 { return latencies[i].Period }, samples)]
}

// PeriodLatency returns the table entry for an exact period, if any.
func PeriodLatency(period uint32) (Latency, bool) {
	for _, l := range latencies {
		if l.Period == period {
			return l, true
		}
	}
	return Latency{}, false
}

// Bits returns the control register latency field for the period.
func (l Latency) Bits() uint32 {
	return EncodeLatency(l.N)
}

// BlockBytes is the period expressed in bytes of one mono slot.
func (l Latency) BlockBytes() uint32 {
	return l.Period * SampleBytes
}

// EncodeLatency places n in the latency field of the control register.
func EncodeLatency(n uint32) uint32 {
	return (n << 1) & hw.LatMask
}
