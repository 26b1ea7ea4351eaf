package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pokedex/pkg/aggregator"
	"pokedex/pkg/utils"
)

// emit writes v as indented JSON to stdout, or to --out when set.
func emit(cmd *cobra.Command, v any) error {
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		return utils.Save(out, v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), utils.PrettyJSON(v))
	return err
}

func reportFailures(l *log.Logger, failures []aggregator.ItemFailure) {
	for _, f := range failures {
		l.Warn("dropped item", "op", f.Op, "item", f.Item, "err", f.Err)
	}
}

func newListCmd() *cobra.Command {
	var offset, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one enriched page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.DefaultPageLimit
			}
			page, failures, err := a.agg.List(cmd.Context(), offset, limit)
			reportFailures(a.log, failures)
			if err != nil {
				return err
			}
			return emit(cmd, page)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "index of the first pokemon")
	cmd.Flags().IntVar(&limit, "limit", 10, "page size")
	cmd.Flags().String("out", "", "write JSON to this file instead of stdout")
	return cmd
}

func newDetailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail <identifier>",
		Short: "Print the detail record of one pokemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			p, failures, err := a.agg.Detail(cmd.Context(), utils.Lower(args[0]))
			reportFailures(a.log, failures)
			if err != nil {
				return err
			}
			return emit(cmd, p)
		},
	}
	cmd.Flags().String("out", "", "write JSON to this file instead of stdout")
	return cmd
}

func newTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type <name>",
		Short: "Print every pokemon of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			cards, failures, err := a.agg.ByType(cmd.Context(), utils.Lower(args[0]))
			reportFailures(a.log, failures)
			if err != nil {
				return err
			}
			return emit(cmd, cards)
		},
	}
	cmd.Flags().String("out", "", "write JSON to this file instead of stdout")
	return cmd
}
