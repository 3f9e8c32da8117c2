package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"docsearch/internal/indexer"
	"docsearch/internal/render"
	"docsearch/internal/service"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the index (prompts if an index exists)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			report, err := a.docs.Build(ctx, force)
			if errors.Is(err, service.ErrIndexExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: An index already exists at: %s\n", opts.cfg.IndexPath)
				if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Do you want to overwrite the existing index? (yes/no): ") {
					fmt.Fprintln(cmd.OutOrStdout(), "Index rebuild cancelled.")
					return nil
				}
				report, err = a.docs.Build(ctx, true)
			}
			if err != nil {
				return err
			}

			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing index without confirmation")
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update the index (currently a full rebuild)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.docs.Update(cmd.Context())
			if err != nil {
				return err
			}

			printReport(cmd, report)
			return nil
		},
	}
}

// printReport writes warnings to stderr and the summary to stdout.
func printReport(cmd *cobra.Command, report *indexer.Report) {
	for _, w := range report.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to read %s: %s\n", s.Path, s.Reason)
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.BuildSummary(report))
}

// confirm asks a yes/no question and reports whether the answer was yes or y.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}
