package hw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_ReadWrite(t *testing.T) {
	s := NewSim()

	s.Write4(ControlReg, 0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), s.Read4(ControlReg))
	assert.Equal(t, uint16(0xbeef), s.Read2(ControlReg))

	s.Write1(EnableOffset(OutEnableBase, 3), 1)
	assert.Equal(t, uint8(1), s.Read1(OutEnableBase+12))

	writes := s.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, Write{Offset: ControlReg, Size: 4, Value: 0xdeadbeef}, writes[0])
	assert.Equal(t, Write{Offset: OutEnableBase + 12, Size: 1, Value: 1}, writes[1])
}

func TestSim_StatusNotLogged(t *testing.T) {
	s := NewSim()
	s.SetStatus(0x1240)
	assert.Equal(t, uint16(0x1240), s.Read2(StatusReg))
	assert.Empty(t, s.Writes())
}

func TestSim_WritesIn(t *testing.T) {
	s := NewSim()
	s.Write4(ControlReg, 1)
	s.Write4(MixerOffset(0, 0), 2)
	s.Write4(MixerOffset(63, 127), 3)

	mixer := s.WritesIn(MixerBase, SimSize)
	require.Len(t, mixer, 2)
	assert.Equal(t, uint32(3), mixer[1].Value)

	s.ResetLog()
	assert.Empty(t, s.Writes())
	assert.Equal(t, uint32(1), s.Read4(ControlReg))
}

func TestSim_OutOfRangePanics(t *testing.T) {
	s := NewSim()
	assert.Panics(t, func() { s.Write4(SimSize-2, 1) })
	assert.NotPanics(t, func() { s.Write4(SimSize-4, 1) })
}

func TestMixerOffset(t *testing.T) {
	assert.Equal(t, MixerBase, MixerOffset(0, 0))
	assert.Equal(t, MixerBase+(64+2+128*2)*4, MixerOffset(2, PlaybackSourceOffset+2))
}
