package hdspe

import (
	"github.com/tphakala/go-hdspe/internal/dma"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/ports"
)

// recChannel drains the capture ring into its channel buffer.
type recChannel struct {
	*channel
}

func (*recChannel) Direction() Direction {
	return Capture
}

func (*recChannel) enableBase() uint32 {
	return hw.InEnableBase
}

// Capture sources start at mixer column 0.
func (*recChannel) sourceOffset() int {
	return 0
}

func (*recChannel) copy(ring *dma.Buffer, pcm []uint32, l ports.Layout, channels, pos, frames int) error {
	return dma.Demultiplex(ring, pcm, l, channels, pos, frames)
}
