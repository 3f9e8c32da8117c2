package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docsearch/internal/render"
	"docsearch/internal/search"
	"docsearch/internal/service"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var (
		section bool
		full    bool
		asJSON  bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "query <terms...>",
		Short: "Search the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			mode := search.ModeDocument
			if section {
				mode = search.ModeSection
			}

			resp, err := a.docs.Search(cmd.Context(), service.SearchRequest{
				Query: strings.Join(args, " "),
				Mode:  string(mode),
				Limit: limit,
			})
			if err != nil {
				return err
			}
			if resp.Status == search.StatusNotBuilt {
				fmt.Fprintln(cmd.ErrOrStderr(), "Index not found, please build it first.")
			}

			renderOpts := render.Options{Full: full}
			if asJSON {
				return render.JSON(cmd.OutOrStdout(), resp, renderOpts)
			}
			return render.Text(cmd.OutOrStdout(), resp, renderOpts)
		},
	}

	cmd.Flags().BoolVar(&section, "section", false, "search and print by section (## and RST headings)")
	cmd.Flags().BoolVar(&full, "full", false, "print the full document instead of a snippet")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultLimit, "maximum number of results")
	return cmd
}
