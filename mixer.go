package hdspe

import (
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/mixer"
	"github.com/tphakala/go-hdspe/internal/ports"
)

// hwMatrix writes gain cells of the card's mixer. Playback sources sit
// behind the capture sources in every row.
type hwMatrix struct {
	regs   Registers
	offset int
}

func (m hwMatrix) Set(dst, src int, gain uint16) {
	m.regs.Write4(hw.MixerOffset(dst, m.offset+src), uint32(gain))
}

// SetVolume sets the left and right volume (0-100) of every channel of a
// direction. Running channels take the new gains at once; the others apply
// them when they start. Channels opened later inherit the volume.
func (d *Device) SetVolume(dir Direction, left, right int) {
	left = min(max(left, 0), mixer.MaxVolume)
	right = min(max(right, 0), mixer.MaxVolume)

	d.mu.Lock()
	defer d.mu.Unlock()

	if dir != Playback && dir != Capture {
		return
	}
	d.volumes[dir] = volume{left, right}

	for _, c := range d.channels {
		if c.dir != dir {
			continue
		}
		c.vol = volume{left, right}
		if c.running {
			c.applyGainLocked()
		}
	}
	d.log.Debug("volume set", "direction", dir.String(), "left", left, "right", right)
}

// Volume returns the volume last set for a direction.
func (d *Device) Volume(dir Direction) (left, right int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if dir != Playback && dir != Capture {
		return 0, 0
	}
	v := d.volumes[dir]
	return v.left, v.right
}

// Controls lists the mixer devices the card offers: PCM always, master
// volume when a playback channel is open and record level when a capture
// channel is open.
func (d *Device) Controls() []Control {
	d.mu.Lock()
	defer d.mu.Unlock()

	controls := []Control{ControlPCM}
	var play, rec bool
	for _, c := range d.channels {
		play = play || c.dir == Playback
		rec = rec || c.dir == Capture
	}
	if play {
		controls = append(controls, ControlVolume)
	}
	if rec {
		controls = append(controls, ControlRecLevel)
	}
	return controls
}

// applyGainLocked writes the channel's volume into the mixer cells of its
// full slot range.
func (c *channel) applyGainLocked() {
	m := hwMatrix{regs: c.dev.regs, offset: c.side.sourceOffset()}
	mixer.Apply(m, c.rangeLocked(), c.vol.left, c.vol.right)
}

// rangeLocked is the slot range the channel owns at the current rate.
func (c *channel) rangeLocked() ports.Layout {
	return ports.Range(ports.AdatWidth(c.dev.rate.Hz), c.ports)
}
