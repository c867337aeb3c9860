package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-hdspe"
	"github.com/tphakala/go-hdspe/internal/emu"
	"github.com/tphakala/go-hdspe/internal/meter"
	"github.com/tphakala/go-hdspe/internal/profile"
	"github.com/tphakala/go-hdspe/internal/stream"
)

// loopbackResult is what one run through the emulated cable produced.
type loopbackResult struct {
	rate     uint32
	period   uint32
	ports    hdspe.PortMask
	slots    hdspe.SlotRange
	periods  int
	captured []int32
	levels   []meter.Level
}

func newLoopbackCmd(opts *options) *cobra.Command {
	var (
		modelName string
		portNames []string
		blockSize uint32
		noPrime   bool
	)

	cmd := &cobra.Command{
		Use:   "loopback input.wav output.wav",
		Short: "Play a WAV file through an emulated card and record it back",
		Long: "Plays the input through a playback channel on the given ports, " +
			"cables every output slot to the input slot of the same number " +
			"and records a capture channel on the same ports into the output.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := opts.modelFlag(modelName)
			if err != nil {
				return err
			}
			model, err := profile.ParseModel(name)
			if err != nil {
				return err
			}
			if len(portNames) == 0 {
				portNames = defaultPorts(opts.prof)
			}
			mask, err := profile.ParseMask(model, portNames)
			if err != nil {
				return err
			}
			if blockSize == 0 {
				blockSize = opts.prof.Device.BlockSize
			}

			in, err := readWAV(args[0])
			if err != nil {
				return err
			}

			res, err := runLoopback(cmd, model, mask, blockSize, in, !noPrime, opts.prof)
			if err != nil {
				return err
			}
			if err := writeWAV(args[1], res.captured, in.rate, in.channels, in.bitDepth); err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), res, in)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Card model: aio or raydat")
	cmd.Flags().StringSliceVar(&portNames, "ports", nil, "Port groups to route through (default: first profile playback channel, else aes)")
	cmd.Flags().Uint32VarP(&blockSize, "block-size", "b", 0, "Block size in bytes")
	cmd.Flags().BoolVar(&noPrime, "no-prime", false, "Start without queueing the first periods, adding one period of latency")
	return cmd
}

// defaultPorts picks the ports of the first playback channel of a profile.
func defaultPorts(prof *profile.Profile) []string {
	for _, ch := range prof.Channels {
		if dir, err := ch.Dir(); err == nil && dir == hdspe.Playback {
			return ch.Ports
		}
	}
	return []string{"aes"}
}

// profileVolume returns the volume the profile sets for a direction, if any.
func profileVolume(prof *profile.Profile, dir hdspe.Direction) *profile.Volume {
	for _, ch := range prof.Channels {
		if d, err := ch.Dir(); err == nil && d == dir && ch.Volume != nil {
			return ch.Volume
		}
	}
	return nil
}

// runLoopback moves the whole input through a device on an emulated card.
func runLoopback(cmd *cobra.Command, model hdspe.Model, mask hdspe.PortMask, blockSize uint32,
	in *wavInput, prime bool, prof *profile.Profile,
) (*loopbackResult, error) {
	dev, sim, err := newSimDevice(model, uint32(in.rate), blockSize, prof.Device.MaxChannels)
	if err != nil {
		return nil, err
	}
	cfg := dev.Config()
	if cfg.Rate != uint32(in.rate) {
		slog.Warn("input rate is not a card rate, running at the nearest one",
			"input", in.rate, "card", cfg.Rate)
	}

	for _, dir := range []hdspe.Direction{hdspe.Playback, hdspe.Capture} {
		if v := profileVolume(prof, dir); v != nil {
			dev.SetVolume(dir, v.Left, v.Right)
		}
	}

	var captured []int32
	sink := stream.SinkFunc(func(frames []int32) {
		captured = append(captured, frames...)
	})

	// An unprimed card plays the first period before anything is queued.
	// Lead in with that period as silence so the input starts one period
	// later on both sides of the cable.
	source := in.samples
	if !prime {
		source = append(make([]int32, int(cfg.Period)*in.channels), in.samples...)
	}
	pb := stream.NewPlayback(stream.NewSliceSource(source))
	rc := stream.NewCapture(sink)

	play, err := dev.Open(hdspe.Playback, mask, pb)
	if err != nil {
		return nil, err
	}
	defer func() { _ = play.Close() }()
	rec, err := dev.Open(hdspe.Capture, mask, rc)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rec.Close() }()

	format := hdspe.Format{Channels: in.channels, Bits: hdspe.SampleBits}
	for _, ch := range []hdspe.Channel{play, rec} {
		if err := ch.SetFormat(format); err != nil {
			return nil, fmt.Errorf("%w (offered: %s)", err, formatList(ch.Caps()))
		}
	}
	if err := pb.Bind(play); err != nil {
		return nil, err
	}
	if err := rc.Bind(rec); err != nil {
		return nil, err
	}

	if err := rec.Start(); err != nil {
		return nil, err
	}
	if err := play.Start(); err != nil {
		return nil, err
	}
	if prime {
		if err := play.Trigger(hdspe.TriggerDMA); err != nil {
			return nil, err
		}
	}

	periods := (in.frames() + int(cfg.Period) - 1) / int(cfg.Period)
	if !prime {
		periods++
	}
	slog.Debug("loopback running", "ports", mask.String(), "rate", cfg.Rate,
		"period", cfg.Period, "periods", periods)

	card := emu.New(dev, sim)
	if err := card.Run(cmd.Context(), periods); err != nil {
		return nil, err
	}

	if err := rec.Stop(); err != nil {
		return nil, err
	}
	if err := play.Stop(); err != nil {
		return nil, err
	}

	if !prime {
		captured = captured[min(len(captured), int(cfg.Period)*in.channels):]
	}
	captured = captured[:min(len(captured), len(in.samples))]

	m, err := meter.New(in.channels)
	if err != nil {
		return nil, err
	}
	if err := m.Write(captured); err != nil {
		return nil, err
	}

	return &loopbackResult{
		rate:     cfg.Rate,
		period:   cfg.Period,
		ports:    mask,
		slots:    hdspe.Layout(mask, cfg.Rate),
		periods:  card.Ticks(),
		captured: captured,
		levels:   m.Levels(),
	}, nil
}

func printReport(out io.Writer, res *loopbackResult, in *wavInput) {
	_, _ = fmt.Fprintf(out, "Routed %d frames through %s (slots %s) at %d Hz, %d periods of %d\n",
		in.frames(), res.ports, slotSpan(res.slots), res.rate, res.periods, res.period)

	for ch, l := range res.levels {
		freq := meter.ChannelFrequency(res.captured, in.channels, ch, float64(res.rate))
		_, _ = fmt.Fprintf(out, "  ch%-2d peak %7.1f dBFS  rms %7.1f dBFS  dc %+.4f  %8.1f Hz\n",
			ch+1, l.PeakDB(), l.RMSDB(), l.DC, freq)
	}
}
