package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podbridge/internal/ipc"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show the published up-next list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				queue, err := client.Queue()
				if err != nil {
					return err
				}
				if len(queue.Items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Up next is empty.")
					return nil
				}
				rows := make([][]string, 0, len(queue.Items))
				for _, item := range queue.Items {
					rows = append(rows, []string{
						strconv.FormatInt(item.QueueID, 10),
						item.Title,
						item.Subtitle,
						item.EpisodeID,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					cmd.OutOrStdout(),
					[]string{"#", "Title", "Podcast", "Episode ID"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.AddCommand(newQueueSkipCommand(ctx))
	return cmd
}

func newQueueSkipCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "skip <position>",
		Short: "Start the queued episode at the given position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queueID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid queue position %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SkipToQueueItem(queueID)
				if err != nil {
					return err
				}
				return reportQueued(cmd, resp.Queued, resp.Message, "Queue skip accepted.")
			})
		},
	}
}
