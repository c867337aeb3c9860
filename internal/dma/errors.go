package dma

import "errors"

var (
	ErrLayout      = errors.New("slot layout outside buffer")
	ErrShortBuffer = errors.New("interleaved buffer too small for ring geometry")
	ErrChannels    = errors.New("channel count smaller than slot width")
)
