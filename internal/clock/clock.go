// Package clock maps requested sample rates and block sizes onto the
// values the HDSPe clock generator can produce.
//
// Both lookups use the same nearest-match rule: an exact table entry wins,
// otherwise the first entry whose threshold (halfway to the next entry,
// rounded down) lies above the request is chosen. A request sitting exactly
// on a threshold therefore rounds up, and anything past the last entry
// clamps to it.
package clock

import (
	"github.com/tphakala/go-hdspe/internal/hw"
)

// Rate is a supported sample rate and its control register bits.
type Rate struct {
	Hz   uint32
	Bits uint32
}

var rates = []Rate{
	{32000, hw.Freq32000},
	{44100, hw.Freq44100},
	{48000, hw.Freq48000},
	{64000, hw.Freq32000 | hw.FreqDouble},
	{88200, hw.Freq44100 | hw.FreqDouble},
	{96000, hw.Freq48000 | hw.FreqDouble},
	{128000, hw.Freq32000 | hw.FreqQuad},
	{176400, hw.Freq44100 | hw.FreqQuad},
	{192000, hw.Freq48000 | hw.FreqQuad},
}

// Rates returns the supported rates in ascending order.
func Rates() []Rate {
	return append([]Rate(nil), rates...)
}

// MinRate and MaxRate bound the supported rates.
const (
	MinRate = 32000
	MaxRate = 192000
)

// ResolveRate returns the table rate nearest to hz.
func ResolveRate(hz uint32) Rate {
	return rates[nearest(len(rates), func(i int) uint32 { return rates[i].Hz }, hz)]
}

// Band is the speed mode a rate runs in.
type Band int

const (
	SingleSpeed Band = iota
	DoubleSpeed
	QuadSpeed
)

func (b Band) String() string {
	switch b {
	case DoubleSpeed:
		return "double"
	case QuadSpeed:
		return "quad"
	default:
		return "single"
	}
}

// Band returns the speed band of the rate.
func (r Rate) Band() Band {
	switch {
	case r.Hz > doubleSpeedMax:
		return QuadSpeed
	case r.Hz > singleSpeedMax:
		return DoubleSpeed
	default:
		return SingleSpeed
	}
}

// Base returns the single-speed rate the frequency synthesizer runs at.
func (r Rate) Base() uint32 {
	switch r.Band() {
	case QuadSpeed:
		return r.Hz / quadDivider
	case DoubleSpeed:
		return r.Hz / doubleDivider
	default:
		return r.Hz
	}
}

// DDS returns the frequency synthesizer value for the rate given the
// model's reference constant.
func (r Rate) DDS(reference uint64) uint32 {
	base := r.Base()
	if base == 0 {
		return 0
	}
	return uint32(reference / uint64(base))
}

// nearest implements the shared table lookup. value(i) must be ascending.
func nearest(n int, value func(int) uint32, want uint32) int {
	for i := range n {
		if value(i) == want {
			return i
		}
	}

	i := 0
	for ; i < n; i++ {
		threshold := value(i)
		if i+1 < n {
			threshold += (value(i+1) - value(i)) >> 1
		}
		if want < threshold {
			break
		}
	}
	if i == n {
		i = n - 1
	}
	return i
}
