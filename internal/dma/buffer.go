// Package dma implements the shared slotted ring buffer the card reads
// playback samples from and writes capture samples to, and the copy engine
// that moves interleaved channel data in and out of it.
//
// The buffer is split into MaxSlots slots of SlotSamples 32-bit samples.
// Each slot is a ring of its own; all slots share one position counter.
package dma

import (
	"github.com/tphakala/go-hdspe/internal/ports"
)

// Buffer is one direction of the DMA area.
type Buffer struct {
	data  []uint32
	slots int
}

// NewBuffer allocates a buffer with the given number of slots.
func NewBuffer(slots int) *Buffer {
	if slots < 1 {
		slots = 1
	}

	return &Buffer{
		data:  make([]uint32, slots*SlotSamples),
		slots: slots,
	}
}

// Slots returns the number of slots.
func (b *Buffer) Slots() int {
	return b.slots
}

// Slot returns the samples of one slot. The slice aliases the buffer.
func (b *Buffer) Slot(i int) []uint32 {
	return b.data[i*SlotSamples : (i+1)*SlotSamples : (i+1)*SlotSamples]
}

// Data returns the whole buffer, slot after slot.
func (b *Buffer) Data() []uint32 {
	return b.data
}

// Contains reports whether a layout fits inside the buffer.
func (b *Buffer) Contains(l ports.Layout) bool {
	return l.Base >= 0 && l.Width >= 0 && l.End() <= b.slots
}

// Reset zeroes every slot.
func (b *Buffer) Reset() {
	clear(b.data)
}
