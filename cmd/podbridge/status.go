package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"podbridge/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the published session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStatus(cmd.OutOrStdout(), status))
				return nil
			})
		},
	}
}

func renderStatus(out io.Writer, status *ipc.StatusResponse) string {
	rows := [][]string{
		{"State", status.State},
		{"Active", yesNo(status.Active)},
		{"Position", formatMillis(status.PositionMs)},
		{"Speed", strconv.FormatFloat(status.Speed, 'f', 1, 64) + "x"},
	}
	if status.EpisodeID != "" {
		rows = append(rows,
			[]string{"Episode", status.Title},
			[]string{"Podcast", status.Artist},
		)
		if status.Album != "" {
			rows = append(rows, []string{"Author", status.Album})
		}
		rows = append(rows,
			[]string{"Duration", formatMillis(status.DurationMs)},
			[]string{"Starred", yesNo(status.Starred)},
		)
	}
	if status.ErrorMessage != "" {
		rows = append(rows, []string{"Error", status.ErrorMessage})
	}
	if len(status.CustomActions) > 0 {
		rows = append(rows, []string{"Actions", strings.Join(status.CustomActions, ", ")})
	}
	if status.UpdatedAt != "" {
		rows = append(rows, []string{"Updated", status.UpdatedAt})
	}
	rows = append(rows, []string{"Pending", strconv.Itoa(status.PendingCommands)})

	return renderTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
}

func formatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
