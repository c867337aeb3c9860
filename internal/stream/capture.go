package stream

import (
	"fmt"
	"sync"

	"github.com/tphakala/go-hdspe"
	"github.com/tphakala/go-hdspe/internal/dma"
)

// Sink receives recorded periods of interleaved samples. The slice is
// reused after Consume returns.
type Sink interface {
	Consume(frames []int32)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(frames []int32)

func (f SinkFunc) Consume(frames []int32) { f(frames) }

// SliceSink collects everything it receives.
type SliceSink struct {
	mu   sync.Mutex
	data []int32
}

func (s *SliceSink) Consume(frames []int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, frames...)
}

// Samples returns a copy of the collected samples.
func (s *SliceSink) Samples() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int32(nil), s.data...)
}

// Capture drains a capture channel one period per interrupt.
type Capture struct {
	mu sync.Mutex

	sink     Sink
	buf      []uint32
	channels int
	period   int

	pos      int // Ring frame of the next period to hand out
	recorded int // Periods handed to the sink
	scratch  []int32
}

// NewCapture creates an unbound capture stream.
func NewCapture(sink Sink) *Capture {
	return &Capture{sink: sink}
}

// Bind attaches the stream to its channel. Call it after the format and
// block size are final.
func (c *Capture) Bind(ch hdspe.Channel) error {
	if ch.Direction() != hdspe.Capture {
		return fmt.Errorf("%w: %s", ErrDirection, ch.Direction())
	}

	buf := ch.Buffer()
	if buf == nil {
		return ErrNotBound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf = buf
	c.channels = ch.Format().Channels
	c.period = int(ch.BlockSize()) / sampleBytes
	c.pos, c.recorded = 0, 0
	c.scratch = make([]int32, c.period*c.channels)
	return nil
}

// Offset returns the byte offset of the first free frame.
func (c *Capture) Offset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos * c.channels * sampleBytes
}

// Interrupt hands the oldest recorded period to the sink.
func (c *Capture) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf == nil {
		return
	}
	for i := range c.period {
		f := (c.pos + i) % dma.SlotSamples
		frame := c.buf[f*c.channels : (f+1)*c.channels]
		for ch, v := range frame {
			c.scratch[i*c.channels+ch] = int32(v)
		}
	}
	c.pos = (c.pos + c.period) % dma.SlotSamples
	c.recorded++

	c.sink.Consume(c.scratch)
}

// Recorded returns the number of periods delivered.
func (c *Capture) Recorded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recorded
}
