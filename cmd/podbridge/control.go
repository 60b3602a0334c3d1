package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"podbridge/internal/ipc"
)

func newControlCommands(ctx *commandContext) []*cobra.Command {
	play := &cobra.Command{
		Use:   "play [episode-id]",
		Short: "Resume playback, or start a specific episode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var episodeID string
			if len(args) == 1 {
				episodeID = args[0]
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Play(episodeID)
				if err != nil {
					return err
				}
				return reportQueued(cmd, resp.Queued, resp.Message, "Play accepted.")
			})
		},
	}

	pause := &cobra.Command{
		Use:   "pause",
		Short: "Pause playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Pause()
				if err != nil {
					return err
				}
				return reportQueued(cmd, resp.Queued, resp.Message, "Pause accepted.")
			})
		},
	}

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Deliver the session stop callback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				return reportQueued(cmd, resp.Queued, resp.Message, "Stop accepted.")
			})
		},
	}

	seek := &cobra.Command{
		Use:   "seek <position-ms>",
		Short: "Seek to an absolute position in milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positionMs, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || positionMs < 0 {
				return fmt.Errorf("invalid position %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Seek(positionMs)
				if err != nil {
					return err
				}
				return reportQueued(cmd, resp.Queued, resp.Message, "Seek accepted.")
			})
		},
	}

	key := &cobra.Command{
		Use:   "key <play_pause|next|previous>",
		Short: "Deliver a raw media-button press",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Key(args[0])
				if err != nil {
					return err
				}
				if !resp.Handled {
					fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Key handled.")
				return nil
			})
		},
	}

	search := &cobra.Command{
		Use:   "search <query>...",
		Short: "Resolve a voice-style search query and start playback",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Search(query)
				if err != nil {
					return err
				}
				if !resp.Matched {
					fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Playing search result.")
				return nil
			})
		},
	}

	action := &cobra.Command{
		Use:   "action <name>",
		Short: "Dispatch a custom session action",
		Long: "Dispatch one of the advertised custom actions: jumpBack, jumpFwd,\n" +
			"changeSpeed, star, unstar, markAsPlayed, archive, or playNext.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CustomAction(args[0])
				if err != nil {
					return err
				}
				return reportQueued(cmd, resp.Queued, resp.Message, "Action accepted.")
			})
		},
	}

	return []*cobra.Command{play, pause, stop, seek, key, search, action}
}

func reportQueued(cmd *cobra.Command, queued bool, message, accepted string) error {
	if !queued {
		if message == "" {
			message = "command rejected"
		}
		return fmt.Errorf("%s", message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), accepted)
	return nil
}
