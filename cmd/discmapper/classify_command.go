package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"discmapper/internal/classify"
	"discmapper/internal/makemkv"
	"discmapper/internal/probe"
)

// newClassifyCommand runs the matching logic against an already-ripped
// directory without moving anything. Useful for tuning buffers before
// committing a real capture run.
func newClassifyCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		kind     string
		episodes int
	)

	cmd := &cobra.Command{
		Use:   "classify <dir>",
		Short: "Dry-run classification of an existing rip directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			kind = strings.ToLower(strings.TrimSpace(kind))
			if kind != "tv" && kind != "movie" {
				return fmt.Errorf("--kind must be tv or movie")
			}
			if kind == "tv" && episodes < 1 {
				return fmt.Errorf("--episodes is required for tv classification")
			}

			candidates, err := probeDirectory(cmd, cfg.FFprobeBinary(), args[0])
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				return fmt.Errorf("no .mkv files under %s", args[0])
			}

			out := cmd.OutOrStdout()
			if kind == "movie" {
				result, err := classify.SelectKeeper(candidates,
					cfg.Keeper.MinMainMinutes*60,
					cfg.Keeper.DurationToleranceSeconds,
					cfg.Keeper.MultiCutThresholdSeconds)
				if err != nil {
					return err
				}
				for i, cluster := range result.Clusters {
					names := make([]string, len(cluster))
					for j, candidate := range cluster {
						names[j] = candidate.Name
					}
					fmt.Fprintf(out, "Cluster %d (%dm): %s\n",
						i+1, cluster[0].DurationSeconds/60, strings.Join(names, ", "))
				}
				if result.Ambiguous {
					fmt.Fprintln(out, "Result: ambiguous, would go to review")
					return nil
				}
				fmt.Fprintf(out, "Result: keeper %s\n", result.Keeper.Name)
				return nil
			}

			var durations []int
			for _, candidate := range candidates {
				if candidate.DurationKnown {
					durations = append(durations, candidate.DurationSeconds)
				}
			}
			typical, err := classify.TypicalDuration(durations)
			if err != nil {
				return err
			}
			units := make([]classify.Unit, episodes)
			for i := range units {
				units[i] = classify.Unit{Ordinal: i}
			}
			windows := classify.BuildWindows(units, typical, classify.Buffers{
				ManifestMinutes:     cfg.Matching.ManifestBufferMinutes,
				TypicalMinutes:      cfg.Matching.TypicalBufferMinutes,
				SpecialDeltaMinutes: cfg.Matching.SpecialDeltaMinutes,
			})
			fmt.Fprintf(out, "Typical duration: %dm%02ds, window %dm-%dm\n",
				typical/60, typical%60, windows[0].MinSeconds/60, windows[0].MaxSeconds/60)

			assignment, err := classify.MatchSequence(windows, candidates, cfg.Matching.SkipPenaltyMinutes)
			if err != nil {
				return fmt.Errorf("no feasible assignment: %w", err)
			}
			rows := make([][]string, 0, len(assignment.Pairs))
			for _, pair := range assignment.Pairs {
				candidate := candidates[pair.Candidate]
				rows = append(rows, []string{
					fmt.Sprintf("%d", pair.Unit+1),
					candidate.Name,
					fmt.Sprintf("%dm%02ds", candidate.DurationSeconds/60, candidate.DurationSeconds%60),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Episode", "File", "Duration"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Mean error: %.2f min (ceiling %.2f)\n",
				assignment.MeanErrorMinutes, cfg.Matching.MaxMeanErrorMinutes)
			if assignment.MeanErrorMinutes > cfg.Matching.MaxMeanErrorMinutes {
				fmt.Fprintln(out, "Result: over ceiling, would go to review")
			} else {
				fmt.Fprintln(out, "Result: would auto-commit")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "movie", "Content kind: tv or movie")
	cmd.Flags().IntVar(&episodes, "episodes", 0, "Expected episode count (tv)")
	return cmd
}

func probeDirectory(cmd *cobra.Command, ffprobeBinary, dir string) ([]classify.Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".mkv") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	prober := probe.New(ffprobeBinary)
	candidates := make([]classify.Candidate, 0, len(names))
	for order, name := range names {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		candidate := classify.Candidate{
			Path:           path,
			Name:           name,
			SizeBytes:      info.Size(),
			TitleIndex:     -1,
			DiscoveryOrder: order,
		}
		if index, ok := makemkv.TitleIndex(name); ok {
			candidate.TitleIndex = index
		}
		if result, err := prober.Inspect(cmd.Context(), path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cannot probe %s: %v\n", name, err)
		} else {
			candidate.VideoStreams = result.VideoStreamCount()
			candidate.AudioStreams = result.AudioStreamCount()
			candidate.SubtitleStreams = result.SubtitleStreamCount()
			if seconds, err := result.DurationSeconds(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: no duration for %s: %v\n", name, err)
			} else {
				candidate.DurationSeconds = seconds
				candidate.DurationKnown = true
			}
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}
