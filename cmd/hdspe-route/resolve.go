package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-hdspe/internal/clock"
	"github.com/tphakala/go-hdspe/internal/hw"
	"github.com/tphakala/go-hdspe/internal/profile"
)

func newResolveCmd(opts *options) *cobra.Command {
	var (
		modelName string
		rate      uint32
		blockSize uint32
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the rate and block size a card settles on for a request",
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
			if blockSize == 0 {
				blockSize = opts.prof.Device.BlockSize
			}

			dev, sim, err := newSimDevice(model, clock.DefaultRate, 0, 0)
			if err != nil {
				return err
			}

			gotRate, err := dev.SetRate(rate)
			if err != nil {
				return err
			}
			gotBytes, err := dev.SetBlockSize(blockSize)
			if err != nil {
				return err
			}

			r := clock.ResolveRate(gotRate)
			l := clock.ResolveBlockSize(gotBytes)
			cfg := dev.Config()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "rate:       %d Hz -> %d Hz (%s speed)\n", rate, r.Hz, r.Band())
			_, _ = fmt.Fprintf(out, "block size: %d B -> %d B (%d samples, %.1f ms)\n", blockSize, gotBytes, l.Period, l.Ms)
			_, _ = fmt.Fprintf(out, "control:    %#08x\n", cfg.Control)
			_, _ = fmt.Fprintf(out, "dds:        %d\n", sim.Read4(hw.FreqReg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Card model: aio, raydat, aes, madi")
	cmd.Flags().Uint32VarP(&rate, "rate", "r", 0, "Requested sample rate in Hz")
	cmd.Flags().Uint32VarP(&blockSize, "block-size", "b", 0, "Requested block size in bytes")
	return cmd
}
