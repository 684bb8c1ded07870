package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/keshon/dare/internal/music/parsers/kkdai"
	"github.com/keshon/dare/internal/music/source_resolver"
	"github.com/keshon/dare/internal/music/sources/radio"
	"github.com/keshon/dare/internal/music/sources/youtube"
	"github.com/keshon/dare/pkg/retrylimit"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Show the tracks a play query resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limiter := retrylimit.NewAdaptiveLimiter(rate.Limit(ctx.cfg.ProviderRPS), 1, 20, 1, 0.5)
			client := kkdai.NewClient(ctx.cfg.YouTubeProxy, ctx.log)
			resolver := source_resolver.New(
				youtube.New(client, limiter, ctx.log),
				radio.NewRadioResolver(),
				source_resolver.Options{PlaylistLimit: ctx.cfg.PlaylistLimit},
				ctx.log,
			)

			rctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			tracks, err := resolver.Resolve(rctx, args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(tracks))
			for i, t := range tracks {
				rows = append(rows, []string{fmt.Sprint(i + 1), string(t.Kind), t.DisplayName(), t.Locator})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Kind", "Title", "Locator"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Give up after this long")
	return cmd
}
