package ports

// MaxSlots is the number of mono slots in each direction of the DMA buffer.
const MaxSlots = 64

// ADAT stream widths. An ADAT port carries 8 channels at single speed,
// 4 with S/MUX at double speed and 2 at quad speed.
const (
	WidthQuad   = 2
	WidthDouble = 4
	WidthSingle = 8
)

// Sample rate band edges in Hz.
const (
	singleSpeedMax = 48000
	doubleSpeedMax = 96000
)

const stereoSlots = 2

// Layout is a contiguous run of slots.
type Layout struct {
	Base  int
	Width int
}

// End returns the first slot past the layout.
func (l Layout) End() int {
	return l.Base + l.Width
}

// Overlaps reports whether two layouts share a slot.
func (l Layout) Overlaps(o Layout) bool {
	if l.Width == 0 || o.Width == 0 {
		return false
	}
	return l.Base < o.End() && o.Base < l.End()
}

// AdatWidth returns the ADAT stream width for a sample rate.
func AdatWidth(rate uint32) int {
	if rate > doubleSpeedMax {
		return WidthQuad
	}
	if rate > singleSpeedMax {
		return WidthDouble
	}
	return WidthSingle
}

// SlotBase returns the first slot of a port mask. When the mask holds more
// than one group, the group with the lowest slot wins.
func SlotBase(adatWidth int, m Mask) int {
	switch {
	case m&AIOLine != 0:
		return 0
	case m&AIOPhone != 0:
		return 6
	case m&AIOAES != 0:
		return 8
	case m&AIOSPDIF != 0:
		return 10
	case m&AIOADAT != 0:
		return 12
	}

	switch {
	case m&RayAES != 0:
		return 0
	case m&RaySPDIF != 0:
		return 2
	case m&RayADAT1 != 0:
		return 4
	case m&RayADAT2 != 0:
		return 4 + adatWidth
	case m&RayADAT3 != 0:
		return 4 + 2*adatWidth
	case m&RayADAT4 != 0:
		return 4 + 3*adatWidth
	}

	return 0
}

// SlotWidth returns the number of contiguous slots a port mask occupies.
// AIO line is always two slots wide; the slots up to phone at 6 are left
// unused by the card.
func SlotWidth(adatWidth int, m Mask) int {
	if m&AIOLine != 0 {
		return stereoSlots
	}

	slots := 0
	if m&AIOPhone != 0 {
		slots += stereoSlots
	}
	if m&AIOAES != 0 {
		slots += stereoSlots
	}
	if m&AIOSPDIF != 0 {
		slots += stereoSlots
	}
	if m&AIOADAT != 0 {
		slots += adatWidth
	}
	if slots > 0 {
		return slots
	}

	if m&RayAES != 0 {
		slots += stereoSlots
	}
	if m&RaySPDIF != 0 {
		slots += stereoSlots
	}
	for _, adat := range []Mask{RayADAT1, RayADAT2, RayADAT3, RayADAT4} {
		if m&adat != 0 {
			slots += adatWidth
		}
	}

	return slots
}

// ChannelCount returns the number of interleaved channels a port mask
// carries. AIO groups take precedence; RayDAT groups are only counted when
// no AIO group is present.
func ChannelCount(adatWidth int, m Mask) int {
	count := 0
	if m&AIOLine != 0 {
		count += stereoSlots
	}
	if m&AIOPhone != 0 {
		count += stereoSlots
	}
	if m&AIOAES != 0 {
		count += stereoSlots
	}
	if m&AIOSPDIF != 0 {
		count += stereoSlots
	}
	if m&AIOADAT != 0 {
		count += adatWidth
	}
	if count > 0 {
		return count
	}

	if m&RayAES != 0 {
		count += stereoSlots
	}
	if m&RaySPDIF != 0 {
		count += stereoSlots
	}
	for _, adat := range []Mask{RayADAT1, RayADAT2, RayADAT3, RayADAT4} {
		if m&adat != 0 {
			count += adatWidth
		}
	}

	return count
}

// Range returns the slot layout of a port mask.
func Range(adatWidth int, m Mask) Layout {
	return Layout{
		Base:  SlotBase(adatWidth, m),
		Width: SlotWidth(adatWidth, m),
	}
}

// CopyWidth narrows the ADAT width used for copying to the smallest width
// whose channel count matches the negotiated format. A stereo stream on an
// ADAT port at 48 kHz then moves two slots instead of eight.
func CopyWidth(adatWidth, channels int, m Mask) int {
	if adatWidth > WidthQuad && channels == ChannelCount(WidthQuad, m) {
		return WidthQuad
	}
	if adatWidth > WidthDouble && channels == ChannelCount(WidthDouble, m) {
		return WidthDouble
	}
	return adatWidth
}

// Widths lists the supported ADAT stream widths, narrowest first.
func Widths() []int {
	return []int{WidthQuad, WidthDouble, WidthSingle}
}
