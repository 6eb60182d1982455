package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"discmapper/internal/manifest"
	"discmapper/internal/queue"
	"discmapper/internal/tvmaze"
)

func newImportCommand(cmdCtx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load manifests into the capture queue",
	}
	importCmd.AddCommand(newImportTVCommand(cmdCtx))
	importCmd.AddCommand(newImportMoviesCommand(cmdCtx))
	return importCmd
}

func newImportTVCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tv <manifest.csv>",
		Short: "Queue every disc from an episode manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			var lookup manifest.YearLookup
			if cfg.TVMaze.Enabled {
				client := tvmaze.NewClient(cfg.TVMaze.BaseURL, time.Duration(cfg.TVMaze.TimeoutSeconds)*time.Second)
				lookup = client.YearLookup
			}

			index, err := manifest.ReadTVManifest(args[0], lookup)
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			added := 0
			for _, discJob := range index.Discs {
				job := &queue.Job{
					Kind:   queue.KindTV,
					Title:  discJob.Series,
					Season: discJob.Season,
					Disc:   discJob.Disc,
					Year:   discJob.ShowYear,
					IMDBID: discJob.IMDBID,
				}
				if len(discJob.Episodes) > 0 {
					job.PackageIndex = discJob.Episodes[0].PackageIndex
				}
				if err := job.SetEpisodes(discJob.Episodes); err != nil {
					return fmt.Errorf("encode episodes for %s: %w", discJob.Key, err)
				}
				if _, err := store.Add(cmd.Context(), job); err != nil {
					return err
				}
				added++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Queued %d disc(s) from %s\n", added, args[0])
			if index.IgnoredRows > 0 {
				fmt.Fprintf(out, "Ignored %d row(s) missing series/season/disc\n", index.IgnoredRows)
			}
			return nil
		},
	}
}

func newImportMoviesCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "movies <collection.csv>",
		Short: "Queue every movie disc from a collection export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			movies, err := manifest.ReadMovieCollection(args[0])
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, movie := range movies {
				job := &queue.Job{
					Kind:         queue.KindMovie,
					Title:        movie.Title,
					Year:         movie.Year,
					IMDBID:       movie.IMDBID,
					PackageIndex: movie.Index,
					Barcode:      movie.Barcode,
					Format:       movie.Format,
				}
				if _, err := store.Add(cmd.Context(), job); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Queued %d movie(s) from %s\n", len(movies), args[0])
			return nil
		},
	}
}
