// Package emu emulates the DMA engine and period interrupt of an HDSPe
// card on top of the in-memory register file, with every output slot
// cabled back to the input slot of the same number.
package emu

import (
	"context"
	"errors"

	"github.com/tphakala/go-hdspe"
	"github.com/tphakala/go-hdspe/internal/dma"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/ports"
)

// ErrIdle indicates a period was requested while the control word has the
// audio engine switched off.
var ErrIdle = errors.New("card audio engine is idle")

// Card drives one device. It is not safe for concurrent use and must be
// the only caller of the device's Interrupt.
type Card struct {
	dev  *hdspe.Device
	regs *hw.Sim

	pos   int // Hardware frame position in every slot ring
	ticks int
}

// New creates an emulated card for a device built on regs.
func New(dev *hdspe.Device, regs *hw.Sim) *Card {
	return &Card{dev: dev, regs: regs}
}

// Tick runs one hardware period: the engine plays and records one period
// at the current position, advances the position register and raises the
// period interrupt.
func (c *Card) Tick() error {
	if c.regs.Read4(hw.ControlReg)&hw.AudioRunning != hw.AudioRunning {
		return ErrIdle
	}

	period := int(c.dev.Config().Period)
	c.loopback(c.pos, period)

	c.pos = (c.pos + period) % dma.SlotSamples
	c.regs.SetStatus(uint32(c.pos*dma.SampleBytes) & hw.PositionMask)
	c.ticks++

	c.dev.Interrupt()
	return nil
}

// Run ticks until n periods have elapsed, the engine stops or ctx ends.
func (c *Card) Run(ctx context.Context, n int) error {
	for range n {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// loopback copies frames [pos, pos+frames) of every slot enabled on both
// sides from the playback ring to the record ring.
func (c *Card) loopback(pos, frames int) {
	play, rec := c.dev.PlayRing(), c.dev.RecordRing()

	for slot := range ports.MaxSlots {
		if c.regs.Read1(hw.EnableOffset(hw.OutEnableBase, slot)) == 0 ||
			c.regs.Read1(hw.EnableOffset(hw.InEnableBase, slot)) == 0 {
			continue
		}

		base := slot * dma.SlotSamples
		for i := range frames {
			f := base + (pos+i)%dma.SlotSamples
			rec[f] = play[f]
		}
	}
}

// Position returns the hardware frame position.
func (c *Card) Position() int {
	return c.pos
}

// Ticks returns the number of periods run.
func (c *Card) Ticks() int {
	return c.ticks
}
