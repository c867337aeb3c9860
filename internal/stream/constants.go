package stream

// Buffer geometry
const (
	sampleBytes = 4 // Bytes per channel buffer sample
	lookahead   = 2 // Periods queued ahead of the card
)
