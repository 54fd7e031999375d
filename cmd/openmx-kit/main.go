// Command openmx-kit exercises the plugin library from the shell: validate
// parameter files, render input decks, extract results from run logs, and
// drive DosMain post-processing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openmx-go/openmx"
	"github.com/openmx-go/openmx/calcjob"
)

var (
	logger  *zap.Logger
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "openmx-kit",
		Short:         "Compose, validate, and post-process OpenMX calculations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newValidateCmd(), newRenderCmd(), newExtractCmd(), newDosCmd())

	if err := root.Execute(); err != nil {
		printError(err)
		os.Exit(exitStatus(err))
	}
}

// printError gives validation issues one line each; everything else gets a
// single line.
func printError(err error) {
	if iss, ok := openmx.AsIssues(err); ok {
		for _, is := range iss {
			fmt.Fprintf(os.Stderr, "error: [%s] %s: %s\n", is.Code, is.Keyword, is.Message)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func exitStatus(err error) int {
	if code := calcjob.ExitCode(err); code != 0 && code != calcjob.ExitOutputParse {
		// Orchestrator codes exceed the shell's range; fold them down but
		// keep them distinguishable from plain failure.
		return 2
	}
	return 1
}
