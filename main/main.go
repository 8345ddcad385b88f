package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudfoundry/bosh-alongside/alongside"
)

const mainLogTag = "main"

const (
	exitRecoverable = 1
	exitFatal       = 2
	exitUnsafeState = 3
)

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR - %s\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "bosh-alongside",
		Short: "Shrink an existing partition to install a new system alongside it",
		Long: `Shrink an existing partition to install a new system alongside it.

The filesystem is resized first and the partition table entry second. When
the partition table cannot be rewritten after the filesystem was resized,
the disk is left in an unsafe state and the command exits with 3.

Exit codes:
  1  the operation was refused or aborted without changing the disk
  2  the disks could not be inspected
  3  the filesystem is smaller than its partition`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "C", "", "Path to a YAML or JSON config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR, NONE), overrides the config")

	cmd.AddCommand(newScanCommand(opts))
	cmd.AddCommand(newAnalyzeCommand(opts))
	cmd.AddCommand(newShrinkCommand(opts))

	return cmd
}

func exitCode(err error) int {
	switch {
	case alongside.IsUnsafeState(err):
		return exitUnsafeState
	case alongside.IsFatal(err):
		return exitFatal
	default:
		return exitRecoverable
	}
}
