package main

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"podbridge/internal/catalog"
	"podbridge/internal/playback"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local episode catalog",
	}
	cmd.AddCommand(newCatalogAddPodcastCommand(ctx))
	cmd.AddCommand(newCatalogAddEpisodeCommand(ctx))
	cmd.AddCommand(newCatalogPodcastsCommand(ctx))
	cmd.AddCommand(newCatalogEpisodesCommand(ctx))
	return cmd
}

func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCatalogAddPodcastCommand(ctx *commandContext) *cobra.Command {
	var podcastUUID string
	var author string

	cmd := &cobra.Command{
		Use:   "add-podcast <title>",
		Short: "Register a podcast in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if podcastUUID == "" {
				podcastUUID = uuid.NewString()
			}
			return ctx.withStore(func(store *catalog.Store) error {
				podcast := playback.Podcast{
					UUID:   podcastUUID,
					Title:  args[0],
					Author: author,
				}
				if err := store.AddPodcast(cmd.Context(), podcast); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), podcastUUID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&podcastUUID, "uuid", "", "Podcast UUID (generated when omitted)")
	cmd.Flags().StringVar(&author, "author", "", "Podcast author")
	return cmd
}

func newCatalogAddEpisodeCommand(ctx *commandContext) *cobra.Command {
	var episodeUUID string
	var podcastUUID string
	var durationMs int64

	cmd := &cobra.Command{
		Use:   "add-episode <title>",
		Short: "Register an episode in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if podcastUUID == "" {
				return fmt.Errorf("--podcast is required")
			}
			if episodeUUID == "" {
				episodeUUID = uuid.NewString()
			}
			return ctx.withStore(func(store *catalog.Store) error {
				episode := playback.PodcastEpisode{
					UUID:        episodeUUID,
					PodcastUUID: podcastUUID,
					Name:        args[0],
					Duration:    durationMs,
				}
				if err := store.AddEpisode(cmd.Context(), episode); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), episodeUUID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&episodeUUID, "uuid", "", "Episode UUID (generated when omitted)")
	cmd.Flags().StringVar(&podcastUUID, "podcast", "", "Parent podcast UUID")
	cmd.Flags().Int64Var(&durationMs, "duration-ms", 0, "Episode duration in milliseconds")
	return cmd
}

func newCatalogPodcastsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "podcasts",
		Short: "List catalog podcasts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				podcasts, err := store.ListPodcasts(cmd.Context())
				if err != nil {
					return err
				}
				if len(podcasts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog has no podcasts.")
					return nil
				}
				rows := make([][]string, 0, len(podcasts))
				for _, p := range podcasts {
					rows = append(rows, []string{p.UUID, p.Title, p.Author})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					cmd.OutOrStdout(),
					[]string{"UUID", "Title", "Author"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newCatalogEpisodesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <podcast-uuid>",
		Short: "List catalog episodes for a podcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				episodes, err := store.ListEpisodes(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(episodes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Podcast has no episodes.")
					return nil
				}
				rows := make([][]string, 0, len(episodes))
				for _, e := range episodes {
					rows = append(rows, []string{
						e.ID(),
						e.Title(),
						formatMillis(e.DurationMs()),
						yesNo(e.Starred()),
						strconv.FormatBool(e.Archived()),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					cmd.OutOrStdout(),
					[]string{"UUID", "Title", "Duration", "Starred", "Archived"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
