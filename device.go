package hdspe

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tphakala/go-hdspe/internal/clock"
	"github.com/tphakala/go-hdspe/internal/dma"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/ports"
)

// Registers is the register window of one card. Offsets are bytes from
// the start of the register BAR.
type Registers = hw.Registers

// Model identifies the card variant.
type Model int

const (
	ModelAIO Model = iota
	ModelRayDAT
	ModelAES
	ModelMADI
)

func (m Model) String() string {
	switch m {
	case ModelAIO:
		return "AIO"
	case ModelRayDAT:
		return "RayDAT"
	case ModelAES:
		return "AES"
	case ModelMADI:
		return "MADI"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// Supported reports whether the routing core can program the model.
func (m Model) Supported() bool {
	_, ok := m.reference()
	return ok
}

func (m Model) catalog() ports.Catalog {
	switch m {
	case ModelAIO:
		return ports.CatalogAIO
	case ModelRayDAT:
		return ports.CatalogRayDAT
	default:
		return ports.CatalogNone
	}
}

// reference returns the frequency synthesizer constant of the model.
func (m Model) reference() (uint64, bool) {
	switch m {
	case ModelAIO:
		return clock.ReferenceAIO, true
	case ModelRayDAT:
		return clock.ReferenceRayDAT, true
	default:
		return 0, false
	}
}

// Config holds device configuration.
type Config struct {
	// Model is the card variant.
	Model Model

	// Registers is the card's register window.
	Registers Registers

	// MaxChannels limits the number of open channels.
	// Set to 0 to use the default of 16.
	MaxChannels int

	// Rate is the initial sample rate in Hz and must be a supported rate.
	// Set to 0 for 48000.
	Rate uint32

	// Period is the initial period in samples and must be a supported
	// period. Set to 0 for 32.
	Period uint32

	// Logger receives debug and warning messages.
	// Set to nil to use slog.Default().
	Logger *slog.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Registers == nil {
		return fmt.Errorf("%w: registers are nil", ErrInvalidConfig)
	}
	if c.Model < ModelAIO || c.Model > ModelMADI {
		return fmt.Errorf("%w: unknown model %d", ErrInvalidConfig, int(c.Model))
	}
	if c.MaxChannels < 0 || c.MaxChannels > maxChannelsLimit {
		return fmt.Errorf("%w: max channels must be 0-%d", ErrInvalidConfig, maxChannelsLimit)
	}
	if c.Rate != 0 && clock.ResolveRate(c.Rate).Hz != c.Rate {
		return fmt.Errorf("%w: unsupported rate %d Hz", ErrInvalidConfig, c.Rate)
	}
	if c.Period != 0 {
		if _, ok := clock.PeriodLatency(c.Period); !ok {
			return fmt.Errorf("%w: unsupported period %d", ErrInvalidConfig, c.Period)
		}
	}
	return nil
}

// DeviceConfig is a snapshot of the settings shared by every channel.
type DeviceConfig struct {
	Rate    uint32 // Sample rate in Hz
	Period  uint32 // Period in samples
	Control uint32 // Control register word
	Running bool   // Any channel running
}

// Control is a mixer device exposed to the audio framework.
type Control int

const (
	ControlPCM Control = iota
	ControlVolume
	ControlRecLevel
)

func (c Control) String() string {
	switch c {
	case ControlVolume:
		return "vol"
	case ControlRecLevel:
		return "rec"
	default:
		return "pcm"
	}
}

type volume struct {
	left, right int
}

// Device is one HDSPe card. It owns the shared ring buffers, the control
// register word and every open channel.
type Device struct {
	mu sync.Mutex

	regs  Registers
	model Model
	log   *slog.Logger

	rate    clock.Rate
	latency clock.Latency
	ctrl    uint32

	play *dma.Buffer
	rec  *dma.Buffer

	channels    []*channel
	maxChannels int
	volumes     [directionCount]volume
}

// New creates a device and programs its initial rate and period.
func New(cfg *Config) (*Device, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rateHz := cfg.Rate
	if rateHz == 0 {
		rateHz = clock.DefaultRate
	}
	period := cfg.Period
	if period == 0 {
		period = clock.DefaultPeriod
	}
	maxChannels := cfg.MaxChannels
	if maxChannels == 0 {
		maxChannels = defaultMaxChannels
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	latency, _ := clock.PeriodLatency(period)
	d := &Device{
		regs:        cfg.Registers,
		model:       cfg.Model,
		log:         logger.With("model", cfg.Model.String()),
		rate:        clock.ResolveRate(rateHz),
		latency:     latency,
		play:        dma.NewBuffer(ports.MaxSlots),
		rec:         dma.NewBuffer(ports.MaxSlots),
		maxChannels: maxChannels,
	}
	for i := range d.volumes {
		d.volumes[i] = volume{DefaultVolume, DefaultVolume}
	}

	d.ctrl = d.latency.Bits() | d.rate.Bits
	d.regs.Write4(hw.ControlReg, d.ctrl)
	if ref, ok := d.model.reference(); ok {
		d.regs.Write4(hw.FreqReg, d.rate.DDS(ref))
	} else {
		d.log.Warn("model cannot program rates or periods")
	}

	return d, nil
}

// Model returns the card variant.
func (d *Device) Model() Model {
	return d.model
}

// Config returns a snapshot of the shared settings.
func (d *Device) Config() DeviceConfig {
	d.mu.Lock()
	defer d.mu.Unlock()

	return DeviceConfig{
		Rate:    d.rate.Hz,
		Period:  d.latency.Period,
		Control: d.ctrl,
		Running: d.runningLocked(),
	}
}

// Running reports whether any channel is running.
func (d *Device) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runningLocked()
}

// runningLocked recomputes the aggregate run state from every channel.
func (d *Device) runningLocked() bool {
	for _, c := range d.channels {
		if c.running {
			return true
		}
	}
	return false
}

// Open binds a new channel to a set of port groups. The mask must belong to
// the device's model and, for capture, every group must be able to record.
// On failure nothing is registered.
func (d *Device) Open(dir Direction, mask PortMask, p Pipeline) (Channel, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, ErrNilPipeline)
	}
	if dir != Playback && dir != Capture {
		return nil, fmt.Errorf("%w: unknown direction %d", ErrAllocation, int(dir))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkPortsLocked(dir, mask); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if len(d.channels) >= d.maxChannels {
		return nil, fmt.Errorf("%w: %w: limit %d", ErrAllocation, ErrTooManyChannels, d.maxChannels)
	}

	c := newChannel(d, dir, mask, p)
	d.channels = append(d.channels, c)
	d.log.Debug("channel opened", "direction", dir.String(), "ports", mask.String(),
		"channels", c.format.Channels)

	return c.outer, nil
}

func (d *Device) checkPortsLocked(dir Direction, mask PortMask) error {
	cat := mask.Catalog()
	if cat == ports.CatalogNone || cat != d.model.catalog() {
		return fmt.Errorf("%w: %s on %s", ErrInvalidPorts, mask, d.model)
	}
	if dir == Capture && !mask.Capturable() {
		return fmt.Errorf("%w: %s cannot record", ErrInvalidPorts, mask)
	}

	for _, c := range d.channels {
		if c.dir != dir {
			continue
		}
		for _, w := range ports.Widths() {
			if ports.Range(w, mask).Overlaps(ports.Range(w, c.ports)) {
				return fmt.Errorf("%w: %s overlaps %s", ErrPortsBusy, mask, c.ports)
			}
		}
	}
	return nil
}

func (d *Device) release(c *channel) {
	for i, o := range d.channels {
		if o == c {
			d.channels = append(d.channels[:i], d.channels[i+1:]...)
			return
		}
	}
}

// SetRate programs the nearest supported sample rate and returns it.
// While any channel runs the rate is left alone and the current rate is
// returned without error.
func (d *Device) SetRate(hz uint32) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setRateLocked(hz)
}

func (d *Device) setRateLocked(hz uint32) (uint32, error) {
	if d.runningLocked() {
		d.log.Debug("rate change refused while running", "requested", hz, "rate", d.rate.Hz)
		return d.rate.Hz, nil
	}

	ref, ok := d.model.reference()
	if !ok {
		d.log.Warn("rate change on unsupported model", "requested", hz)
		return d.rate.Hz, fmt.Errorf("%w: %s cannot program rates", ErrUnsupportedDevice, d.model)
	}

	r := clock.ResolveRate(hz)
	d.ctrl = d.ctrl&^hw.FreqMask | r.Bits
	d.regs.Write4(hw.ControlReg, d.ctrl)
	d.regs.Write4(hw.FreqReg, r.DDS(ref))
	d.rate = r

	d.log.Debug("rate set", "requested", hz, "rate", r.Hz, "band", r.Band().String())
	return r.Hz, nil
}

// SetBlockSize programs the period nearest to a block size in bytes and
// returns the resulting block size. Every open channel takes the new
// geometry. While any channel runs nothing changes and the current block
// size is returned without error.
func (d *Device) SetBlockSize(bytes uint32) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setBlockSizeLocked(bytes)
}

func (d *Device) setBlockSizeLocked(bytes uint32) (uint32, error) {
	if d.runningLocked() {
		d.log.Debug("block size change refused while running", "requested", bytes,
			"period", d.latency.Period)
		return d.latency.BlockBytes(), nil
	}

	if !d.model.Supported() {
		d.log.Warn("block size change on unsupported model", "requested", bytes)
		return d.latency.BlockBytes(), fmt.Errorf("%w: %s cannot program periods", ErrUnsupportedDevice, d.model)
	}

	l := clock.ResolveBlockSize(bytes)
	d.ctrl = d.ctrl&^hw.LatMask | l.Bits()
	d.regs.Write4(hw.ControlReg, d.ctrl)
	d.latency = l

	for _, c := range d.channels {
		c.resize()
	}

	d.log.Debug("period set", "requested", bytes, "period", l.Period, "latency_ms", l.Ms)
	return l.BlockBytes(), nil
}

// startAudioLocked sets the interrupt and DMA enable bits.
func (d *Device) startAudioLocked() {
	d.ctrl |= hw.AudioRunning
	d.regs.Write4(hw.ControlReg, d.ctrl)
}

// stopAudioLocked clears the enable bits once no channel runs.
func (d *Device) stopAudioLocked() {
	if d.runningLocked() {
		return
	}
	d.ctrl &^= hw.AudioRunning
	d.regs.Write4(hw.ControlReg, d.ctrl)
}

// ring returns the shared buffer of a direction.
func (d *Device) ring(dir Direction) *dma.Buffer {
	if dir == Playback {
		return d.play
	}
	return d.rec
}

// PlayRing exposes the playback side of the DMA area, which the card reads.
// The slice is not guarded by the device lock; only use it from the
// goroutine that calls Interrupt.
func (d *Device) PlayRing() []uint32 {
	return d.play.Data()
}

// RecordRing exposes the capture side of the DMA area, which the card
// writes. Like PlayRing, only use it from the goroutine that calls
// Interrupt.
func (d *Device) RecordRing() []uint32 {
	return d.rec.Data()
}

// Interrupt handles one hardware period. Every running channel moves its
// samples and is then notified through its pipeline. The device lock is
// released while a pipeline runs.
func (d *Device) Interrupt() {
	d.mu.Lock()
	chans := append([]*channel(nil), d.channels...)
	d.mu.Unlock()

	for _, c := range chans {
		d.mu.Lock()
		running := c.running
		if running {
			if err := c.transferLocked(); err != nil {
				d.log.Error("period transfer failed", "ports", c.ports.String(), "error", err)
			}
		}
		d.mu.Unlock()

		if running {
			c.pipeline.Interrupt()
		}
	}
}
