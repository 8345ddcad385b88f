package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudfoundry/bosh-alongside/alongside"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

func newScanCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List partitions a new system can be installed alongside",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.HandlePanic("Main")
			defer rt.finish()

			entries, err := rt.app.GetOrchestrator().Scan()
			if err != nil {
				return err
			}

			return printEntries(cmd.OutOrStdout(), entries)
		},
	}
}

func newAnalyzeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <partition>",
		Short: "Show the sizes a partition can be shrunk to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.HandlePanic("Main")
			defer rt.finish()

			bounds, err := rt.app.GetOrchestrator().Analyze(args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %dMB used of %dMB, may be shrunk to %d-%dMB\n",
				bounds.PartitionPath, bounds.MinSizeMB, bounds.MaxSizeMB, bounds.MinSizeMB, bounds.UpperLimitMB())
			return err
		},
	}
}

func newShrinkCommand(opts *globalOptions) *cobra.Command {
	var (
		sizeMB uint64
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "shrink <partition>",
		Short: "Shrink a partition and hand the freed space to the installer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.HandlePanic("Main")
			defer rt.finish()

			orchestrator := rt.app.GetOrchestrator()

			plan, err := orchestrator.Plan(args[0], alongside.FixedSizeChooser(sizeMB))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if dryRun {
				_, err = fmt.Fprintf(out, "Would shrink %s (%s) to %dMB, plan %s\n", plan.PartitionPath, plan.FileSystem, plan.ChosenSizeMB, plan.ID)
				return err
			}

			space, err := orchestrator.Shrink(plan)
			if space.DevicePath != "" {
				_, printErr := fmt.Fprintf(out, "Freed %dMB on %s starting at byte %d\n", space.FreedSizeMB, space.DevicePath, space.FreedStartOffset)
				if err == nil {
					err = printErr
				}
			}

			return err
		},
	}

	cmd.Flags().Uint64Var(&sizeMB, "size", 0, "New size of the partition in MB")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only validate the plan, change nothing")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func printEntries(out io.Writer, entries []alongside.CatalogEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "PARTITION\tDEVICE\tFILESYSTEM\tSIZE\tOS")
	for _, entry := range entries {
		fileSystem := string(entry.FileSystem)
		if fileSystem == "" {
			fileSystem = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%dMB\t%s\n",
			entry.PartitionPath, entry.DevicePath, fileSystem, boshdisk.ConvertFromBytesToMb(entry.SizeInBytes), entry.OSLabel)
	}

	return w.Flush()
}
