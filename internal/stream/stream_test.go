package stream

import (
	"log/slog"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-hdspe"
	"github.com/tphakala/go-hdspe/internal/hw"
)

const (
	testPeriod   = 32
	testChannels = 2
	periodBytes  = testPeriod * testChannels * sampleBytes
)

func newDevice(t *testing.T) *hdspe.Device {
	t.Helper()
	dev, err := hdspe.New(&hdspe.Config{
		Model:     hdspe.ModelAIO,
		Registers: hw.NewSim(),
		Period:    testPeriod,
		Logger:    slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	return dev
}

func ramp(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i + 1)
	}
	return out
}

func frames(buf []uint32, from, count int) []int32 {
	out := make([]int32, 0, count*testChannels)
	for _, v := range buf[from*testChannels : (from+count)*testChannels] {
		out = append(out, int32(v))
	}
	return out
}

func TestPlayback_BindPrefills(t *testing.T) {
	dev := newDevice(t)
	input := ramp(3 * testPeriod * testChannels)
	pb := NewPlayback(NewSliceSource(input))

	ch, err := dev.Open(hdspe.Playback, hdspe.PortAIOAES, pb)
	require.NoError(t, err)
	require.NoError(t, pb.Bind(ch))

	buf := ch.Buffer()
	assert.Equal(t, input[:2*testPeriod*testChannels], frames(buf, 0, 2*testPeriod))
	assert.Zero(t, pb.Offset())
	assert.Zero(t, pb.Played())
	assert.False(t, pb.Drained())
}

func TestPlayback_InterruptAdvances(t *testing.T) {
	dev := newDevice(t)
	input := ramp(3 * testPeriod * testChannels)
	pb := NewPlayback(NewSliceSource(input))

	ch, err := dev.Open(hdspe.Playback, hdspe.PortAIOAES, pb)
	require.NoError(t, err)
	require.NoError(t, pb.Bind(ch))
	buf := ch.Buffer()

	pb.Interrupt()
	assert.Equal(t, periodBytes, pb.Offset())
	assert.Equal(t, 1, pb.Played())
	assert.Equal(t, input[2*testPeriod*testChannels:], frames(buf, 2*testPeriod, testPeriod))
	assert.False(t, pb.Drained())

	// The source is empty now, the next period is padded with silence.
	pb.Interrupt()
	assert.Equal(t, 2*periodBytes, pb.Offset())
	assert.True(t, pb.Drained())
	for _, v := range frames(buf, 3*testPeriod, testPeriod) {
		require.Zero(t, v)
	}
}

func TestPlayback_ShortSourceIsPadded(t *testing.T) {
	dev := newDevice(t)
	input := ramp(testPeriod) // Half a period of stereo frames
	pb := NewPlayback(NewSliceSource(input))

	ch, err := dev.Open(hdspe.Playback, hdspe.PortAIOAES, pb)
	require.NoError(t, err)
	require.NoError(t, pb.Bind(ch))

	got := frames(ch.Buffer(), 0, testPeriod)
	assert.Equal(t, input, got[:len(input)])
	for _, v := range got[len(input):] {
		require.Zero(t, v)
	}
	assert.True(t, pb.Drained())
}

func TestCapture_InterruptEmitsPeriod(t *testing.T) {
	dev := newDevice(t)
	sink := &SliceSink{}
	cp := NewCapture(sink)

	ch, err := dev.Open(hdspe.Capture, hdspe.PortAIOAES, cp)
	require.NoError(t, err)
	require.NoError(t, cp.Bind(ch))

	buf := ch.Buffer()
	want := ramp(2 * testPeriod * testChannels)
	for i, v := range want {
		buf[i] = uint32(v)
	}

	cp.Interrupt()
	assert.Equal(t, want[:testPeriod*testChannels], sink.Samples())
	assert.Equal(t, periodBytes, cp.Offset())
	assert.Equal(t, 1, cp.Recorded())

	cp.Interrupt()
	assert.Equal(t, want, sink.Samples())
	assert.Equal(t, 2, cp.Recorded())
}

func TestCapture_SinkFunc(t *testing.T) {
	dev := newDevice(t)
	var got int
	cp := NewCapture(SinkFunc(func(frames []int32) { got += len(frames) }))

	ch, err := dev.Open(hdspe.Capture, hdspe.PortAIOLine, cp)
	require.NoError(t, err)
	require.NoError(t, cp.Bind(ch))

	cp.Interrupt()
	assert.Equal(t, testPeriod*testChannels, got)
}

func TestStreams_UnboundInterruptIsNoop(t *testing.T) {
	pb := NewPlayback(NewSliceSource(ramp(8)))
	cp := NewCapture(&SliceSink{})

	assert.NotPanics(t, pb.Interrupt)
	assert.NotPanics(t, cp.Interrupt)
	assert.Zero(t, pb.Played())
	assert.Zero(t, cp.Recorded())
}

func TestStreams_BindErrors(t *testing.T) {
	dev := newDevice(t)
	pb := NewPlayback(NewSliceSource(nil))
	cp := NewCapture(&SliceSink{})

	play, err := dev.Open(hdspe.Playback, hdspe.PortAIOAES, pb)
	require.NoError(t, err)
	rec, err := dev.Open(hdspe.Capture, hdspe.PortAIOAES, cp)
	require.NoError(t, err)

	assert.ErrorIs(t, pb.Bind(rec), ErrDirection)
	assert.ErrorIs(t, cp.Bind(play), ErrDirection)

	require.NoError(t, play.Close())
	require.NoError(t, rec.Close())
	assert.ErrorIs(t, pb.Bind(play), ErrNotBound)
	assert.ErrorIs(t, cp.Bind(rec), ErrNotBound)
}

func TestIntBuffer_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		samples  []int
		want     []int32
	}{
		{"16bit", 16, []int{1, -1, 32767, -32768}, []int32{1 << 16, -1 << 16, 32767 << 16, -32768 << 16}},
		{"24bit", 24, []int{1, -8388608}, []int32{1 << 8, -8388608 << 8}},
		{"32bit", 32, []int{7, -7}, []int32{7, -7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &audio.IntBuffer{
				Format:         &audio.Format{NumChannels: 2, SampleRate: 48000},
				Data:           tt.samples,
				SourceBitDepth: tt.bitDepth,
			}

			wide, err := FromIntBuffer(in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wide)

			out, err := ToIntBuffer(wide, 2, 48000, tt.bitDepth)
			require.NoError(t, err)
			assert.Equal(t, tt.samples, out.Data)
			assert.Equal(t, tt.bitDepth, out.SourceBitDepth)
			assert.Equal(t, 48000, out.Format.SampleRate)
		})
	}
}

func TestIntBuffer_UnsupportedDepth(t *testing.T) {
	_, err := FromIntBuffer(&audio.IntBuffer{Data: []int{1}, SourceBitDepth: 8})
	require.Error(t, err)

	_, err = ToIntBuffer([]int32{1}, 1, 48000, 12)
	require.Error(t, err)
}
