// Package hw defines the register map of the HDSPe cards and the register
// port the routing core talks to.
package hw

// Registers is a byte-addressed register window. Offsets are relative to
// the start of the card's register BAR.
type Registers interface {
	Read2(offset uint32) uint16
	Read4(offset uint32) uint32
	Write1(offset uint32, value uint8)
	Write4(offset uint32, value uint32)
}

// Register offsets.
const (
	StatusReg  uint32 = 0
	ControlReg uint32 = 64
	FreqReg    uint32 = 256

	OutEnableBase uint32 = 512
	InEnableBase  uint32 = 768

	MixerBase uint32 = 32768
)

// Control register bits.
const (
	Enable         uint32 = 1 << 0
	AudioIntEnable uint32 = 1 << 5

	Lat0    uint32 = 1 << 1
	Lat1    uint32 = 1 << 2
	Lat2    uint32 = 1 << 3
	LatMask        = Lat0 | Lat1 | Lat2

	Freq0      uint32 = 1 << 6
	Freq1      uint32 = 1 << 7
	FreqDouble uint32 = 1 << 8
	FreqQuad   uint32 = 1 << 31

	Freq32000 = Freq0
	Freq44100 = Freq1
	Freq48000 = Freq0 | Freq1
	FreqMask  = Freq0 | Freq1 | FreqDouble | FreqQuad

	AudioRunning = Enable | AudioIntEnable
)

// PositionMask selects the hardware buffer position, in bytes within one
// slot, from the status register.
const PositionMask = 0x000FFC0

// MixerStride is the number of source columns per destination row of the
// hardware mixer matrix. Capture sources start at column 0 and playback
// sources at PlaybackSourceOffset.
const (
	MixerStride          = 128
	PlaybackSourceOffset = 64
	mixerCellSize        = 4
)

// EnableOffset returns the enable byte of a slot in an enable bank.
func EnableOffset(base uint32, slot int) uint32 {
	return base + uint32(4*slot)
}

// MixerOffset returns the register of one mixer matrix cell.
func MixerOffset(dst, src int) uint32 {
	return MixerBase + uint32((src+MixerStride*dst)*mixerCellSize)
}
