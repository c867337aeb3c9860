package hdspe

import (
	"github.com/tphakala/go-hdspe/internal/dma"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/ports"
)

// playChannel feeds the playback ring from its channel buffer.
type playChannel struct {
	*channel
}

func (*playChannel) Direction() Direction {
	return Playback
}

func (*playChannel) enableBase() uint32 {
	return hw.OutEnableBase
}

func (*playChannel) sourceOffset() int {
	return hw.PlaybackSourceOffset
}

func (*playChannel) copy(ring *dma.Buffer, pcm []uint32, l ports.Layout, channels, pos, frames int) error {
	return dma.Multiplex(ring, pcm, l, channels, pos, frames)
}
