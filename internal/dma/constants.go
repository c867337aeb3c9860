package dma

// Slot geometry
const (
	SlotSamples = 16 * 1024                 // Samples per slot ring
	SampleBytes = 4                         // Bytes per sample
	SlotBytes   = SlotSamples * SampleBytes // Bytes per slot ring
)
