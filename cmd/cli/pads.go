package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/keshon/dare/internal/soundpad"
)

func newPadsCommand(ctx *commandContext) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "pads",
		Short: "List the soundpad catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := soundpad.Load(ctx.cfg.PadsDir, ctx.log)
			if err != nil {
				return err
			}

			pads := catalog.All()
			if category != "" {
				pads = catalog.InCategory(category)
			}
			if len(pads) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No pads under %s\n", catalog.Root())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Category", "Rate", "Duration"},
				padRows(pads),
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list pads in this category")
	return cmd
}

func padRows(pads []soundpad.Pad) [][]string {
	rows := make([][]string, 0, len(pads))
	for _, p := range pads {
		rate := "-"
		if p.SampleRate > 0 {
			rate = strconv.Itoa(p.SampleRate)
		}
		rows = append(rows, []string{p.Key, p.Category, rate, p.Duration.Round(10 * time.Millisecond).String()})
	}
	return rows
}
