// Package stream is the audio framework side of a channel. Playback keeps
// a channel buffer filled from a sample source; Capture hands every
// recorded period to a sink.
//
// Both types are bound to their channel after the format and block size
// have been negotiated, and cache the channel buffer from then on.
package stream

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tphakala/go-hdspe"
	"github.com/tphakala/go-hdspe/internal/dma"
)

var (
	// ErrNotBound indicates a channel without a buffer, which happens once
	// it has been closed.
	ErrNotBound = errors.New("stream has no channel buffer")

	// ErrDirection indicates a stream bound to a channel of the other
	// direction.
	ErrDirection = errors.New("channel direction mismatch")
)

// Source supplies interleaved 32-bit samples.
type Source interface {
	// Fill writes samples into dst and returns how many it wrote. A short
	// count means the source is drained.
	Fill(dst []int32) int
}

// SliceSource plays a fixed block of interleaved samples once.
type SliceSource struct {
	data []int32
	pos  int
}

// NewSliceSource wraps interleaved samples.
func NewSliceSource(data []int32) *SliceSource {
	return &SliceSource{data: data}
}

func (s *SliceSource) Fill(dst []int32) int {
	n := copy(dst, s.data[s.pos:])
	s.pos += n
	return n
}

// Playback feeds a playback channel. It keeps two periods queued ahead of
// the transfer position.
type Playback struct {
	mu sync.Mutex

	src      Source
	buf      []uint32
	channels int
	period   int

	pos     int // Ring frame the next transfer starts at
	filled  int // Frames written ahead of pos
	drained bool
	played  int // Periods completed
	scratch []int32
}

// NewPlayback creates an unbound playback stream.
func NewPlayback(src Source) *Playback {
	return &Playback{src: src}
}

// Bind attaches the stream to its channel and queues the first two
// periods. Call it after the format and block size are final.
func (p *Playback) Bind(ch hdspe.Channel) error {
	if ch.Direction() != hdspe.Playback {
		return fmt.Errorf("%w: %s", ErrDirection, ch.Direction())
	}

	buf := ch.Buffer()
	if buf == nil {
		return ErrNotBound
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf = buf
	p.channels = ch.Format().Channels
	p.period = int(ch.BlockSize()) / sampleBytes
	p.pos, p.filled, p.played, p.drained = 0, 0, 0, false
	p.scratch = make([]int32, p.period*p.channels)

	for p.filled < lookahead*p.period {
		p.fillPeriod()
	}
	return nil
}

// fillPeriod appends one period behind the queued frames.
func (p *Playback) fillPeriod() {
	clear(p.scratch)
	if !p.drained {
		if n := p.src.Fill(p.scratch); n < len(p.scratch) {
			p.drained = true
		}
	}

	start := (p.pos + p.filled) % dma.SlotSamples
	for i := range p.period {
		f := (start + i) % dma.SlotSamples
		frame := p.buf[f*p.channels : (f+1)*p.channels]
		for c := range frame {
			frame[c] = uint32(p.scratch[i*p.channels+c])
		}
	}
	p.filled += p.period
}

// Offset returns the byte offset of the first queued frame.
func (p *Playback) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos * p.channels * sampleBytes
}

// Interrupt retires the period the card has taken and queues the next one.
func (p *Playback) Interrupt() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buf == nil {
		return
	}
	p.pos = (p.pos + p.period) % dma.SlotSamples
	p.filled -= p.period
	p.played++
	p.fillPeriod()
}

// Played returns the number of periods handed to the card.
func (p *Playback) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Drained reports whether the source has run out.
func (p *Playback) Drained() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drained
}
