package hdspe

import (
	"fmt"
	"slices"

	"github.com/tphakala/go-hdspe/internal/dma"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/ports"
)

// Direction is the data flow of a channel.
type Direction int

const (
	Playback Direction = iota
	Capture
)

const directionCount = 2

func (d Direction) String() string {
	switch d {
	case Playback:
		return "playback"
	case Capture:
		return "capture"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Format is a negotiated sample format.
type Format struct {
	Channels int
	Bits     int
}

func (f Format) String() string {
	return fmt.Sprintf("S%d_LE/%dch", f.Bits, f.Channels)
}

// Caps are the formats and rates a channel accepts.
type Caps struct {
	MinRate uint32
	MaxRate uint32
	Formats []Format
}

// Supports reports whether a format is listed in the caps.
func (c Caps) Supports(f Format) bool {
	return slices.Contains(c.Formats, f)
}

// capsFor lists one format per distinct channel count the mask carries
// across the ADAT widths, narrowest first.
func capsFor(mask PortMask) Caps {
	var formats []Format
	for _, w := range ports.Widths() {
		f := Format{Channels: ports.ChannelCount(w, mask), Bits: SampleBits}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return Caps{MinRate: MinRate, MaxRate: MaxRate, Formats: formats}
}

// Trigger is a run state request from the audio framework.
type Trigger int

const (
	TriggerStart Trigger = iota
	TriggerStop
	TriggerAbort
	// TriggerDMA asks for an immediate transfer. It is ignored while the
	// channel is stopped.
	TriggerDMA
)

func (t Trigger) String() string {
	switch t {
	case TriggerStart:
		return "start"
	case TriggerStop:
		return "stop"
	case TriggerAbort:
		return "abort"
	case TriggerDMA:
		return "dma"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// Pipeline is the audio framework side of a channel.
type Pipeline interface {
	// Offset returns the byte offset in the channel buffer the next
	// transfer starts from: the first ready byte for playback, the first
	// free byte for capture.
	Offset() int

	// Interrupt signals that a period of samples has been moved.
	Interrupt()
}

// Channel is a logical stream bound to a set of port groups. Playback and
// capture channels share this interface.
type Channel interface {
	Direction() Direction
	Ports() PortMask
	Caps() Caps
	Format() Format

	// SetFormat selects one of the formats listed in Caps.
	SetFormat(f Format) error

	// SetRate and SetBlockSize change device-wide settings; see
	// Device.SetRate and Device.SetBlockSize.
	SetRate(hz uint32) (uint32, error)
	SetBlockSize(bytes uint32) (uint32, error)

	// BlockSize is the period in bytes of one slot; Blocks is the number
	// of such blocks in the channel buffer.
	BlockSize() uint32
	Blocks() int

	Start() error
	Stop() error
	Abort() error
	Trigger(t Trigger) error
	Running() bool

	// Transfer moves two periods between the channel buffer and the
	// shared ring. The channel must be running.
	Transfer() error

	// Position returns the hardware position as a byte offset in the
	// channel buffer.
	Position() uint32

	// Buffer returns the interleaved channel buffer. It holds one ring's
	// worth of frames at the current format and aliases channel memory.
	Buffer() []uint32

	Close() error
}

// side holds what differs between playback and capture.
type side interface {
	Direction() Direction
	enableBase() uint32
	sourceOffset() int
	copy(ring *dma.Buffer, pcm []uint32, l ports.Layout, channels, pos, frames int) error
}

// channel carries the state shared by both directions. It is always
// wrapped by a playChannel or recChannel.
type channel struct {
	dev      *Device
	side     side
	outer    Channel
	dir      Direction
	ports    PortMask
	pipeline Pipeline

	caps   Caps
	format Format
	vol    volume

	running bool
	closed  bool

	data      []uint32
	blockSize uint32
	blocks    int
}

// newChannel must be called with the device lock held.
func newChannel(d *Device, dir Direction, mask PortMask, p Pipeline) *channel {
	c := &channel{
		dev:      d,
		dir:      dir,
		ports:    mask,
		pipeline: p,
		caps:     capsFor(mask),
		vol:      d.volumes[dir],
		data:     make([]uint32, dma.SlotSamples*ports.ChannelCount(ports.WidthSingle, mask)),
	}
	c.format = Format{
		Channels: ports.ChannelCount(ports.AdatWidth(d.rate.Hz), mask),
		Bits:     SampleBits,
	}

	if dir == Playback {
		pc := &playChannel{channel: c}
		c.side, c.outer = pc, pc
	} else {
		rc := &recChannel{channel: c}
		c.side, c.outer = rc, rc
	}

	c.resize()
	return c
}

// resize recomputes the buffer geometry from the device period and the
// channel format.
func (c *channel) resize() {
	period := c.dev.latency.Period
	c.blockSize = c.dev.latency.BlockBytes()
	c.blocks = dma.SlotSamples * c.format.Channels / int(period)
}

func (c *channel) Ports() PortMask {
	return c.ports
}

func (c *channel) Caps() Caps {
	caps := c.caps
	caps.Formats = slices.Clone(c.caps.Formats)
	return caps
}

func (c *channel) Format() Format {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	return c.format
}

func (c *channel) SetFormat(f Format) error {
	if f.Bits != SampleBits || !c.caps.Supports(f) {
		return fmt.Errorf("%w: %s on %s", ErrUnsupportedFormat, f, c.ports)
	}

	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.format = f
	c.resize()
	return nil
}

func (c *channel) SetRate(hz uint32) (uint32, error) {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()

	if c.closed {
		return c.dev.rate.Hz, ErrClosed
	}
	return c.dev.setRateLocked(hz)
}

func (c *channel) SetBlockSize(bytes uint32) (uint32, error) {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()

	if c.closed {
		return c.blockSize, ErrClosed
	}
	return c.dev.setBlockSizeLocked(bytes)
}

func (c *channel) BlockSize() uint32 {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	return c.blockSize
}

func (c *channel) Blocks() int {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	return c.blocks
}

func (c *channel) Running() bool {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	return c.running
}

func (c *channel) Start() error {
	d := c.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.enableLocked(true)
	c.applyGainLocked()
	d.startAudioLocked()

	d.log.Debug("channel started", "direction", c.dir.String(), "ports", c.ports.String())
	return nil
}

func (c *channel) Stop() error {
	return c.halt("stopped")
}

// Abort is the same as Stop.
func (c *channel) Abort() error {
	return c.halt("aborted")
}

func (c *channel) halt(reason string) error {
	d := c.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if err := c.haltLocked(); err != nil {
		return err
	}

	d.log.Debug("channel "+reason, "direction", c.dir.String(), "ports", c.ports.String())
	return nil
}

// haltLocked silences the channel's slots, disables them and drops the
// device run bits when this was the last running channel.
func (c *channel) haltLocked() error {
	if err := dma.Clear(c.dev.ring(c.dir), c.rangeLocked()); err != nil {
		return err
	}
	c.enableLocked(false)
	c.dev.stopAudioLocked()
	return nil
}

// enableLocked sets the run flag and the enable byte of every owned slot.
func (c *channel) enableLocked(on bool) {
	c.running = on

	var v uint8
	if on {
		v = 1
	}
	l := c.rangeLocked()
	base := c.side.enableBase()
	for slot := l.Base; slot < l.End(); slot++ {
		c.dev.regs.Write1(hw.EnableOffset(base, slot), v)
	}
}

func (c *channel) Trigger(t Trigger) error {
	switch t {
	case TriggerStart:
		return c.Start()
	case TriggerStop:
		return c.Stop()
	case TriggerAbort:
		return c.Abort()
	case TriggerDMA:
		c.dev.mu.Lock()
		defer c.dev.mu.Unlock()
		if c.closed {
			return ErrClosed
		}
		if !c.running {
			return nil
		}
		return c.transferLocked()
	default:
		return fmt.Errorf("unknown trigger %d", int(t))
	}
}

func (c *channel) Transfer() error {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	return c.transferLocked()
}

// transferLocked moves two periods starting at the pipeline offset. The
// copy starts at the channel's first slot for the current rate and only
// spans as many slots as the negotiated channel count needs.
func (c *channel) transferLocked() error {
	if !c.running {
		return fmt.Errorf("%w: %s %s", ErrNotRunning, c.dir, c.ports)
	}

	d := c.dev
	n := c.format.Channels
	offset := c.pipeline.Offset()
	if offset < 0 || offset >= dma.SlotBytes*n {
		return fmt.Errorf("%w: %d", ErrBufferOffset, offset)
	}

	adat := ports.AdatWidth(d.rate.Hz)
	l := ports.Layout{
		Base:  ports.SlotBase(adat, c.ports),
		Width: ports.SlotWidth(ports.CopyWidth(adat, n, c.ports), c.ports),
	}
	pos := offset / sampleBytes / n
	frames := copyPeriods * int(d.latency.Period)

	return c.side.copy(d.ring(c.dir), c.data, l, n, pos, frames)
}

func (c *channel) Position() uint32 {
	c.dev.mu.Lock()
	status := c.dev.regs.Read2(hw.StatusReg)
	n := c.format.Channels
	c.dev.mu.Unlock()

	return (uint32(status) & hw.PositionMask) * uint32(n)
}

func (c *channel) Buffer() []uint32 {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()

	if c.closed {
		return nil
	}
	return c.data[:dma.SlotSamples*c.format.Channels]
}

// Close stops the channel if needed and removes it from the device.
func (c *channel) Close() error {
	d := c.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	var err error
	if c.running {
		err = c.haltLocked()
	}
	d.release(c)
	c.closed = true
	c.data = nil

	d.log.Debug("channel closed", "direction", c.dir.String(), "ports", c.ports.String())
	return err
}
