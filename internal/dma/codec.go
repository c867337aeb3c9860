package dma

import (
	"fmt"

	"github.com/tphakala/go-hdspe/internal/ports"
)

// Multiplex copies frames from an interleaved buffer into the slots of a
// layout. Frame f of the interleaved buffer lines up with ring position f,
// so pcm must hold at least SlotSamples frames of the given channel count.
// Only the first l.Width samples of each frame are copied. pos advances
// modulo SlotSamples after every frame.
func Multiplex(b *Buffer, pcm []uint32, l ports.Layout, channels, pos, frames int) error {
	if err := check(b, pcm, l, channels); err != nil {
		return err
	}

	pos %= SlotSamples
	for ; frames > 0; frames-- {
		frame := pcm[pos*channels : pos*channels+l.Width]
		for s, v := range frame {
			b.data[(l.Base+s)*SlotSamples+pos] = v
		}
		pos = (pos + 1) % SlotSamples
	}

	return nil
}

// Demultiplex is the inverse of Multiplex: it gathers the slots of a
// layout into interleaved frames.
func Demultiplex(b *Buffer, pcm []uint32, l ports.Layout, channels, pos, frames int) error {
	if err := check(b, pcm, l, channels); err != nil {
		return err
	}

	pos %= SlotSamples
	for ; frames > 0; frames-- {
		frame := pcm[pos*channels : pos*channels+l.Width]
		for s := range frame {
			frame[s] = b.data[(l.Base+s)*SlotSamples+pos]
		}
		pos = (pos + 1) % SlotSamples
	}

	return nil
}

// Clear zeroes every slot of a layout. Calling it again has no further
// effect.
func Clear(b *Buffer, l ports.Layout) error {
	if !b.Contains(l) {
		return fmt.Errorf("%w: slots %d..%d of %d", ErrLayout, l.Base, l.End(), b.slots)
	}

	clear(b.data[l.Base*SlotSamples : l.End()*SlotSamples])
	return nil
}

func check(b *Buffer, pcm []uint32, l ports.Layout, channels int) error {
	if !b.Contains(l) {
		return fmt.Errorf("%w: slots %d..%d of %d", ErrLayout, l.Base, l.End(), b.slots)
	}
	if channels < l.Width {
		return fmt.Errorf("%w: %d channels, %d slots", ErrChannels, channels, l.Width)
	}
	if len(pcm) < SlotSamples*channels {
		return fmt.Errorf("%w: have %d samples, need %d", ErrShortBuffer, len(pcm), SlotSamples*channels)
	}
	return nil
}
