package hdspe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-hdspe/internal/dma"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/testutil"
)

const (
	testSentinel = 0x5a5a5a5a
	testOffset   = 4096 // Bytes into the channel buffer
)

func TestChannel_Direction(t *testing.T) {
	d, _ := newTestDevice(t, ModelAIO)
	play, _ := openChannel(t, d, Playback, PortAIOPhone)
	rec, _ := openChannel(t, d, Capture, PortAIOLine)

	assert.Equal(t, Playback, play.Direction())
	assert.Equal(t, Capture, rec.Direction())
	assert.Equal(t, PortAIOPhone, play.Ports())
	assert.Equal(t, "capture", rec.Direction().String())
}

func TestChannel_Caps(t *testing.T) {
	tests := []struct {
		name     string
		model    Model
		mask     PortMask
		channels []int
	}{
		{"aio_line", ModelAIO, PortAIOLine, []int{2}},
		{"aio_aes_adat", ModelAIO, PortAIOAES | PortAIOADAT, []int{4, 6, 10}},
		{"ray_adat", ModelRayDAT, PortRayADAT1, []int{2, 4, 8}},
		{"ray_two_adat", ModelRayDAT, PortRayADAT3 | PortRayADAT4, []int{4, 8, 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDevice(t, tt.model)
			ch, _ := openChannel(t, d, Playback, tt.mask)

			caps := ch.Caps()
			assert.Equal(t, uint32(32000), caps.MinRate)
			assert.Equal(t, uint32(192000), caps.MaxRate)
			require.Len(t, caps.Formats, len(tt.channels))
			for i, n := range tt.channels {
				assert.Equal(t, Format{Channels: n, Bits: SampleBits}, caps.Formats[i])
			}
		})
	}
}

func TestChannel_DefaultFormatFollowsRate(t *testing.T) {
	d, _ := newTestDevice(t, ModelRayDAT)
	single, _ := openChannel(t, d, Playback, PortRayADAT1)
	assert.Equal(t, 8, single.Format().Channels)

	_, err := d.SetRate(testDoubleRate)
	require.NoError(t, err)
	double, _ := openChannel(t, d, Capture, PortRayADAT1)
	assert.Equal(t, 4, double.Format().Channels)
	assert.Equal(t, 8, single.Format().Channels, "open channels keep their format")
}

func TestChannel_SetFormat(t *testing.T) {
	d, _ := newTestDevice(t, ModelRayDAT)
	ch, _ := openChannel(t, d, Playback, PortRayADAT1)

	require.NoError(t, ch.SetFormat(Format{Channels: 2, Bits: SampleBits}))
	assert.Equal(t, 2, ch.Format().Channels)
	assert.Len(t, ch.Buffer(), dma.SlotSamples*2)
	assert.Equal(t, dma.SlotSamples*2/32, ch.Blocks())

	err := ch.SetFormat(Format{Channels: 3, Bits: SampleBits})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	err = ch.SetFormat(Format{Channels: 2, Bits: 16})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, 2, ch.Format().Channels)
}

func TestChannel_StartStopControlBits(t *testing.T) {
	d, sim := newTestDevice(t, ModelRayDAT)
	a, _ := openChannel(t, d, Playback, PortRayAES)
	b, _ := openChannel(t, d, Capture, PortRaySPDIF)

	running := func() uint32 { return sim.Read4(hw.ControlReg) & hw.AudioRunning }

	require.NoError(t, a.Start())
	assert.Equal(t, hw.AudioRunning, running())
	require.NoError(t, b.Start())
	assert.True(t, d.Running())

	require.NoError(t, a.Stop())
	assert.Equal(t, hw.AudioRunning, running(), "bits stay while a channel runs")
	assert.True(t, d.Running())

	require.NoError(t, b.Abort())
	assert.Zero(t, running())
	assert.False(t, d.Running())

	// Stopping an idle channel keeps the bits cleared.
	require.NoError(t, a.Stop())
	assert.Zero(t, running())
}

func TestChannel_EnableBytes(t *testing.T) {
	tests := []struct {
		name  string
		dir   Direction
		base  uint32
		mask  PortMask
		rate  uint32
		first int
		end   int
	}{
		{"play_adat2_single", Playback, hw.OutEnableBase, PortRayADAT2, testRate, 12, 20},
		{"rec_adat2_double", Capture, hw.InEnableBase, PortRayADAT2, testDoubleRate, 8, 12},
		{"play_adat4_quad", Playback, hw.OutEnableBase, PortRayADAT4, 192000, 10, 12},
		{"rec_spdif", Capture, hw.InEnableBase, PortRaySPDIF, testRate, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sim := newTestDevice(t, ModelRayDAT)
			_, err := d.SetRate(tt.rate)
			require.NoError(t, err)
			ch, _ := openChannel(t, d, tt.dir, tt.mask)

			enabled := func(slot int) uint8 { return sim.Read1(hw.EnableOffset(tt.base, slot)) }

			require.NoError(t, ch.Start())
			for slot := range 64 {
				want := uint8(0)
				if slot >= tt.first && slot < tt.end {
					want = 1
				}
				assert.Equal(t, want, enabled(slot), "slot %d", slot)
			}

			require.NoError(t, ch.Stop())
			for slot := tt.first; slot < tt.end; slot++ {
				assert.Zero(t, enabled(slot), "slot %d after stop", slot)
			}
		})
	}
}

func TestChannel_StopClearsOwnSlots(t *testing.T) {
	d, _ := newTestDevice(t, ModelAIO)
	ch, _ := openChannel(t, d, Playback, PortAIOADAT)
	require.NoError(t, ch.Start())

	ring := d.PlayRing()
	for i := range ring {
		ring[i] = testSentinel
	}

	require.NoError(t, ch.Stop())
	for slot := range 64 {
		samples := ring[slot*dma.SlotSamples : (slot+1)*dma.SlotSamples]
		if slot >= 12 && slot < 20 {
			testutil.AssertAllZero(t, samples, "slot %d", slot)
		} else {
			testutil.AssertNoneZero(t, samples, "slot %d", slot)
		}
	}

	// A second stop leaves the ring as it was.
	snapshot := append([]uint32(nil), ring...)
	require.NoError(t, ch.Abort())
	assert.Equal(t, snapshot, ring)
}

// TestChannel_TransferRoundTrip moves a playback period into the ring, loops
// the ring back to the capture side and reads it out again.
func TestChannel_TransferRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mask   PortMask
		format int
		slots  []int
	}{
		{"aes_stereo", PortRayAES, 2, []int{0, 1}},
		{"adat_full_width", PortRayADAT2, 8, []int{12, 13, 14, 15, 16, 17, 18, 19}},
		{"adat_narrowed_to_stereo", PortRayADAT1, 2, []int{4, 5}},
		{"second_adat_keeps_its_base", PortRayADAT2, 2, []int{12, 13}},
		{"second_adat_quad_format", PortRayADAT2, 4, []int{12, 13, 14, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDevice(t, ModelRayDAT)
			play, playPipe := openChannel(t, d, Playback, tt.mask)
			rec, recPipe := openChannel(t, d, Capture, tt.mask)
			format := Format{Channels: tt.format, Bits: SampleBits}
			require.NoError(t, play.SetFormat(format))
			require.NoError(t, rec.SetFormat(format))

			src := play.Buffer()
			copy(src, testutil.Ramp(len(src), 1))

			playPipe.offset = testOffset
			recPipe.offset = testOffset
			require.NoError(t, play.Start())
			require.NoError(t, rec.Start())

			require.NoError(t, play.Transfer())
			copy(d.RecordRing(), d.PlayRing())
			require.NoError(t, rec.Trigger(TriggerDMA))

			n := tt.format
			pos := testOffset / 4 / n
			frames := 2 * int(d.Config().Period)
			ring := d.PlayRing()
			dst := rec.Buffer()

			for f := pos; f < pos+frames; f++ {
				for i, slot := range tt.slots {
					want := src[f*n+i]
					require.Equal(t, want, ring[slot*dma.SlotSamples+f], "frame %d slot %d", f, slot)
					require.Equal(t, want, dst[f*n+i], "frame %d channel %d", f, i)
				}
			}

			// Nothing outside the two periods moved.
			assert.Zero(t, dst[(pos-1)*n])
			assert.Zero(t, dst[(pos+frames)*n])
		})
	}
}

func TestChannel_TransferWraps(t *testing.T) {
	d, _ := newTestDevice(t, ModelAIO)
	ch, p := openChannel(t, d, Playback, PortAIOSPDIF)
	src := ch.Buffer()
	copy(src, testutil.Ramp(len(src), 1))
	require.NoError(t, ch.Start())

	// Start one frame before the end of the ring.
	p.offset = (dma.SlotSamples - 1) * 2 * 4
	require.NoError(t, ch.Transfer())

	left := d.PlayRing()[10*dma.SlotSamples : 11*dma.SlotSamples]
	assert.Equal(t, src[(dma.SlotSamples-1)*2], left[dma.SlotSamples-1])
	assert.Equal(t, src[0], left[0])
	assert.Equal(t, src[2*(2*32-2)], left[2*32-2])
	assert.Zero(t, left[2*32-1], "two periods end before this frame")
}

func TestChannel_TransferErrors(t *testing.T) {
	d, _ := newTestDevice(t, ModelAIO)
	ch, p := openChannel(t, d, Playback, PortAIOLine)

	assert.ErrorIs(t, ch.Transfer(), ErrNotRunning)
	require.NoError(t, ch.Trigger(TriggerDMA), "dma trigger on a stopped channel is ignored")
	testutil.AssertAllZero(t, d.PlayRing()[:2*dma.SlotSamples])

	require.NoError(t, ch.Trigger(TriggerStart))
	p.offset = -4
	assert.ErrorIs(t, ch.Transfer(), ErrBufferOffset)
	p.offset = dma.SlotBytes * 2
	assert.ErrorIs(t, ch.Transfer(), ErrBufferOffset)
	p.offset = dma.SlotBytes*2 - 2*4
	assert.NoError(t, ch.Transfer(), "last frame of the channel buffer")

	assert.Error(t, ch.Trigger(Trigger(42)))
}

func TestChannel_Position(t *testing.T) {
	tests := []struct {
		status uint32
		format int
		want   uint32
	}{
		{0x00000000, 2, 0},
		{0x00000140, 2, 0x140 * 2},
		{0x0000017f, 2, 0x140 * 2},
		{0x0000ffff, 8, 0xffc0 * 8},
		{0xabcd0080, 4, 0x80 * 4},
	}

	for _, tt := range tests {
		d, sim := newTestDevice(t, ModelRayDAT)
		ch, _ := openChannel(t, d, Capture, PortRayADAT1)
		require.NoError(t, ch.SetFormat(Format{Channels: tt.format, Bits: SampleBits}))

		sim.SetStatus(tt.status)
		assert.Equal(t, tt.want, ch.Position(), "status %#x", tt.status)
	}
}

func TestChannel_Close(t *testing.T) {
	d, sim := newTestDevice(t, ModelAIO)
	ch, _ := openChannel(t, d, Capture, PortAIOADAT)
	require.NoError(t, ch.Start())

	require.NoError(t, ch.Close())
	assert.False(t, d.Running())
	assert.Zero(t, sim.Read4(hw.ControlReg)&hw.AudioRunning)
	assert.Zero(t, sim.Read1(hw.EnableOffset(hw.InEnableBase, 12)))
	assert.Nil(t, ch.Buffer())

	assert.ErrorIs(t, ch.Close(), ErrClosed)
	assert.ErrorIs(t, ch.Start(), ErrClosed)
	assert.ErrorIs(t, ch.Stop(), ErrClosed)
	assert.ErrorIs(t, ch.Transfer(), ErrClosed)
	assert.ErrorIs(t, ch.SetFormat(Format{Channels: 8, Bits: SampleBits}), ErrClosed)
	_, err := ch.SetRate(testRate)
	assert.ErrorIs(t, err, ErrClosed)

	// The ports are free again.
	openChannel(t, d, Capture, PortAIOADAT)
}

func TestTrigger_String(t *testing.T) {
	assert.Equal(t, "start", TriggerStart.String())
	assert.Equal(t, "abort", TriggerAbort.String())
	assert.Equal(t, "dma", TriggerDMA.String())
	assert.Equal(t, "S32_LE/8ch", Format{Channels: 8, Bits: 32}.String())
}
