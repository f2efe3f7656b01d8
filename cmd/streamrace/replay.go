package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kolkov/streamrace/internal/streamrace/analyzer"
	"github.com/kolkov/streamrace/internal/streamrace/config"
	"github.com/kolkov/streamrace/internal/streamrace/trace"
)

func newReplayCommand() *cobra.Command {
	var (
		samplingEnabled bool
		sampleRate      uint64
		failOnRace      bool
	)

	cmd := &cobra.Command{
		Use:   "replay <trace-file>",
		Short: "Replay a recorded newline-delimited JSON event trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "opening trace")
			}
			defer f.Close()

			events, err := trace.Decode(f)
			if err != nil {
				return err
			}

			eng := analyzer.NewWithOptions(config.Options{
				SamplingEnabled: samplingEnabled,
				SampleRate:      sampleRate,
			})

			set := trace.Replay(eng, events)

			if set.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no unsynchronized accesses found")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d unsynchronized access(es) found:\n\n", set.Len())
			fmt.Fprintln(cmd.OutOrStdout(), set.ErrorOrNil())

			if failOnRace {
				return errors.Errorf("streamrace: %d race(s) detected", set.Len())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&samplingEnabled, "sample", false, "enable 1-in-N per-launch sampling")
	cmd.Flags().Uint64Var(&sampleRate, "sample-rate", 1, "check 1 in N launches when sampling is enabled")
	cmd.Flags().BoolVar(&failOnRace, "fail-on-race", false, "exit non-zero if any race is found")

	return cmd
}
