// Package mixer maps channel volumes onto the card's hardware gain matrix.
package mixer

import (
	"github.com/tphakala/go-hdspe/internal/ports"
)

// Gain scale
const (
	MaxGain   = 32768 // Unity gain in the hardware matrix
	MaxVolume = 100   // Top of the volume scale
	gainMask  = 0xFFFF
)

// Matrix is the hardware mixer, addressed by destination and source slot.
type Matrix interface {
	Set(dst, src int, gain uint16)
}

// Gain converts a 0..100 volume to the hardware gain scale. Volumes above
// 100 are treated as 100.
func Gain(volume int) uint16 {
	volume = min(max(volume, 0), MaxVolume)
	return uint16(volume * MaxGain / MaxVolume & gainMask)
}

// Apply routes every slot of a layout to itself. The first slot takes the
// left volume and every further slot the right volume, so a layout with
// more than two slots still only needs one stereo pair.
func Apply(m Matrix, l ports.Layout, left, right int) {
	slot, end := l.Base, l.End()

	if slot < end {
		m.Set(slot, slot, Gain(left))
		slot++
	}

	g := Gain(right)
	for ; slot < end; slot++ {
		m.Set(slot, slot, g)
	}
}
