// Command hdspe-route inspects HDSPe slot routing and runs audio through an
// emulated card with every output cabled back to its input.
//
// Usage:
//
//	hdspe-route layout --model raydat --rate 96000
//	hdspe-route resolve --rate 50000 --block-size 1000
//	hdspe-route loopback --ports adat1 input.wav output.wav
//	hdspe-route info
//
// Settings not given as flags come from the routing profile (--profile).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tphakala/go-hdspe/internal/profile"
)

type options struct {
	profilePath string
	verbose     bool

	prof *profile.Profile
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "hdspe-route",
		Short:        "Inspect and exercise HDSPe slot routing",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.profilePath, "profile", "p", "", "Routing profile (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newLayoutCmd(opts),
		newResolveCmd(opts),
		newLoopbackCmd(opts),
		newInfoCmd(opts),
	)
	return rootCmd
}

// load reads the profile and installs the default logger.
func (o *options) load(cmd *cobra.Command) error {
	if o.profilePath == "" {
		o.prof = profile.Default()
	} else {
		p, err := profile.Read(o.profilePath)
		if err != nil {
			return err
		}
		o.prof = p
	}

	level, err := o.prof.Level()
	if err != nil {
		return err
	}
	if o.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Debug("profile loaded", "model", o.prof.Device.Model, "channels", len(o.prof.Channels))
	return nil
}

// modelFlag returns the --model flag if set, else the profile model.
func (o *options) modelFlag(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if o.prof == nil {
		return "", fmt.Errorf("no profile loaded")
	}
	return o.prof.Device.Model, nil
}
