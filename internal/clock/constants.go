package clock

// Sample format
const (
	SampleBytes = 4 // Every slot sample is a 32-bit word
)

// Period bounds in samples
const (
	MinPeriod = 32
	MaxPeriod = 4096
)

// Speed band edges in Hz
const (
	singleSpeedMax = 48000
	doubleSpeedMax = 96000
)

// Frequency synthesizer dividers per band
const (
	doubleDivider = 2
	quadDivider   = 4
)

// Frequency synthesizer reference constants per card model
const (
	ReferenceAIO    uint64 = 104857600000000
	ReferenceRayDAT uint64 = 104857600000000
)

// Power-on defaults
const (
	DefaultRate   = 48000
	DefaultPeriod = 32
)
