package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-hdspe"
	"github.com/tphakala/go-hdspe/internal/clock"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/ports"
	"github.com/tphakala/go-hdspe/internal/profile"
)

func newLayoutCmd(opts *options) *cobra.Command {
	var (
		modelName string
		rate      uint32
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the slot table of a card and the profile channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := opts.modelFlag(modelName)
			if err != nil {
				return err
			}
			model, err := profile.ParseModel(name)
			if err != nil {
				return err
			}
			if rate == 0 {
				rate = opts.prof.Device.SampleRate
			}
			r := clock.ResolveRate(rate)

			out := cmd.OutOrStdout()
			if err := printPortTable(out, model, r.Hz); err != nil {
				return err
			}
			if len(opts.prof.Channels) == 0 {
				return nil
			}
			_, _ = fmt.Fprintln(out)
			return printProfileChannels(out, opts.prof, model, r.Hz)
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Card model: aio, raydat, aes, madi")
	cmd.Flags().Uint32VarP(&rate, "rate", "r", 0, "Sample rate in Hz (resolved to the nearest supported rate)")
	return cmd
}

// printPortTable lists every port group of a model with its slots.
func printPortTable(out io.Writer, model hdspe.Model, rate uint32) error {
	catalog := profile.Catalog(model)
	if catalog == ports.CatalogNone {
		return fmt.Errorf("%w: %s", hdspe.ErrUnsupportedDevice, model)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s @ %d Hz (ADAT width %d)\n", model, rate, ports.AdatWidth(rate))
	_, _ = fmt.Fprintln(w, "PORT\tSLOTS\tCHANNELS\tPLAY\tREC")
	for _, p := range ports.Ports(catalog) {
		l := hdspe.Layout(p.Mask, rate)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			p.Name, slotSpan(l), ports.ChannelCount(ports.AdatWidth(rate), p.Mask),
			yesNo(p.Playback), yesNo(p.Capture))
	}
	return w.Flush()
}

// printProfileChannels opens the profile channels on a simulated card and
// reports where each one lands. Channels the card refuses are listed with
// the reason.
func printProfileChannels(out io.Writer, prof *profile.Profile, model hdspe.Model, rate uint32) error {
	dev, _, err := newSimDevice(model, rate, prof.Device.BlockSize, prof.Device.MaxChannels)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CHANNEL\tDIRECTION\tPORTS\tSLOTS\tFORMATS\tSTATUS")
	for i, pc := range prof.Channels {
		name := pc.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		dir, _ := pc.Dir()
		mask, _ := pc.Mask(model)

		status, formats := "ok", "-"
		ch, err := dev.Open(dir, mask, idlePipeline{})
		if err != nil {
			status = err.Error()
			slog.Debug("profile channel refused", "channel", name, "error", err)
		} else {
			formats = formatList(ch.Caps())
			if pc.Channels > 0 {
				if err := ch.SetFormat(hdspe.Format{Channels: pc.Channels, Bits: hdspe.SampleBits}); err != nil {
					status = err.Error()
				}
			}
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			name, dir, mask, slotSpan(hdspe.Layout(mask, rate)), formats, status)
	}
	return w.Flush()
}

// newSimDevice builds a device on an in-memory register file with the rate
// and block size resolved to table values.
func newSimDevice(model hdspe.Model, rate, blockBytes uint32, maxChannels int) (*hdspe.Device, *hw.Sim, error) {
	sim := hw.NewSim()
	dev, err := hdspe.New(&hdspe.Config{
		Model:       model,
		Registers:   sim,
		MaxChannels: maxChannels,
		Rate:        clock.ResolveRate(rate).Hz,
		Period:      clock.ResolveBlockSize(blockBytes).Period,
		Logger:      slog.Default(),
	})
	if err != nil {
		return nil, nil, err
	}
	return dev, sim, nil
}

// idlePipeline backs channels that are opened but never run.
type idlePipeline struct{}

func (idlePipeline) Offset() int { return 0 }
func (idlePipeline) Interrupt()  {}

func slotSpan(l hdspe.SlotRange) string {
	if l.Width == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d", l.Base, l.End()-1)
}

func formatList(caps hdspe.Caps) string {
	counts := make([]string, len(caps.Formats))
	for i, f := range caps.Formats {
		counts[i] = strconv.Itoa(f.Channels)
	}
	return strings.Join(counts, ",")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
