package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"discmapper/internal/manifest"
	"discmapper/internal/queue"
)

func newQueueCommand(cmdCtx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and edit the capture queue",
	}
	queueCmd.AddCommand(newQueueListCommand(cmdCtx))
	queueCmd.AddCommand(newQueueAddCommand(cmdCtx))
	queueCmd.AddCommand(newQueueClearCommand(cmdCtx))
	return queueCmd
}

func newQueueListCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show queue jobs in capture order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []queue.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				status, ok := queue.ParseStatus(trimmed)
				if !ok {
					return fmt.Errorf("unknown status %q", trimmed)
				}
				statuses = append(statuses, status)
			}

			jobs, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "Queue is empty")
				return nil
			}

			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				reason := job.Reason
				if reason == "" {
					reason = job.ErrorMessage
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", job.ID),
					string(job.Kind),
					colorizeStatus(string(job.Status), colorize),
					job.Label(),
					reason,
					job.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Kind", "Status", "Title", "Reason", "Updated"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show jobs with this status")
	return cmd
}

func newQueueAddCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		title        string
		year         int
		imdbID       string
		packageIndex int
		barcode      string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Queue a single movie disc by hand",
		Long:  "Queue one movie disc without a collection export. TV discs carry an episode payload and are queued via 'discmapper import tv'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.Add(cmd.Context(), &queue.Job{
				Kind:         queue.KindMovie,
				Title:        strings.TrimSpace(title),
				Year:         year,
				IMDBID:       manifest.ParseIMDBID(imdbID),
				PackageIndex: packageIndex,
				Barcode:      manifest.NormalizeBarcode(barcode),
				Format:       strings.TrimSpace(format),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d: %s\n", job.ID, job.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Movie title (required)")
	cmd.Flags().IntVar(&year, "year", 0, "Release year")
	cmd.Flags().StringVar(&imdbID, "imdb-id", "", "IMDb id or URL")
	cmd.Flags().IntVar(&packageIndex, "package-index", 0, "Boxed-set package index tag")
	cmd.Flags().StringVar(&barcode, "barcode", "", "Disc barcode")
	cmd.Flags().StringVar(&format, "format", "", "Physical format (DVD, Blu-ray)")
	return cmd
}

func newQueueClearCommand(cmdCtx *commandContext) *cobra.Command {
	var completedOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove jobs from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var (
				removed int64
			)
			if completedOnly {
				removed, err = store.ClearCompleted(cmd.Context())
			} else {
				removed, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Only remove completed jobs")
	return cmd
}
