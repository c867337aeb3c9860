package hdspe

import (
	"github.com/tphakala/go-hdspe/internal/clock"
	"github.com/tphakala/go-hdspe/internal/dma"
)

// Channel limits
const (
	defaultMaxChannels = 16 // Channels per device when Config.MaxChannels is zero
	maxChannelsLimit   = 64 // One channel per slot at most
)

// Sample format
const (
	SampleBits  = 32              // Only 32-bit little endian samples are supported
	sampleBytes = dma.SampleBytes // Bytes per sample
)

// Transfer geometry
const (
	copyPeriods = 2 // Periods moved per interrupt, one period of lookahead
)

// Mixer
const (
	DefaultVolume = 100 // Volume of both directions until SetVolume is called
)

// Rate limits advertised in channel capabilities
const (
	MinRate = clock.MinRate
	MaxRate = clock.MaxRate
)
