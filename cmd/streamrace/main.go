// Command streamrace replays a recorded stream/buffer event trace through
// the happens-before engine and prints any race reports found.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/kolkov/streamrace/internal/streamrace/diag"
)

const version = "0.1.0"

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "streamrace",
		Short:         "Happens-before race detector for asynchronous device streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			diag.Logger = hclog.New(&hclog.LoggerOptions{
				Name:  "streamrace",
				Level: hclog.LevelFromString(logLevel),
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	root.AddCommand(newReplayCommand())
	return root
}
