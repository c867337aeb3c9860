package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-hdspe/internal/clock"
	"github.com/tphakala/go-hdspe/internal/simdops"
)

func newInfoCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the supported rates, periods and SIMD features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			_, _ = fmt.Fprintf(w, "SIMD: %s\n\n", simdops.CPU())

			_, _ = fmt.Fprintln(w, "RATE\tBAND\tCONTROL BITS")
			for _, r := range clock.Rates() {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%#08x\n", r.Hz, r.Band(), r.Bits)
			}
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "PERIOD\tBYTES\tLATENCY\tN")
			for _, l := range clock.Latencies() {
				_, _ = fmt.Fprintf(w, "%d\t%d\t%.1f ms\t%d\n", l.Period, l.BlockBytes(), l.Ms, l.N)
			}
			return w.Flush()
		},
	}
}
