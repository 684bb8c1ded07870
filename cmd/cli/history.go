package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keshon/dare/internal/storage"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var commands bool

	cmd := &cobra.Command{
		Use:   "history <guild-id>",
		Short: "Show recently played tracks for a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.New(cmd.Context(), ctx.cfg.StoragePath, ctx.log)
			if err != nil {
				return err
			}
			defer store.Close()

			guildID := args[0]
			if commands {
				records, err := store.FetchCommandHistory(guildID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"When", "User", "Channel", "Command", "Param"},
					commandRows(records),
					nil,
				))
				return nil
			}

			records, err := store.FetchTracksHistory(guildID)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing played yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Kind", "Title", "Locator"},
				trackRows(records),
				nil,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&commands, "commands", false, "Show the command log instead")
	return cmd
}

func trackRows(records []storage.TrackHistoryRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.PlayedAt.Format(time.DateTime), string(r.Kind), r.Title, r.Locator})
	}
	return rows
}

func commandRows(records []storage.CommandHistoryRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Datetime.Format(time.DateTime), r.Username, r.ChannelName, r.Command, r.Param})
	}
	return rows
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
