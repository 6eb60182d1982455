package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"discmapper/internal/disc"
	"discmapper/internal/logging"
	"discmapper/internal/makemkv"
	"discmapper/internal/pipeline"
	"discmapper/internal/probe"
	"discmapper/internal/queue"
	"discmapper/internal/runner"
)

// ejectorAdapter binds the configured device into the pipeline's
// device-free eject port.
type ejectorAdapter struct {
	device string
	inner  disc.Ejector
}

func (e ejectorAdapter) Eject(ctx context.Context) error {
	return e.inner.Eject(ctx, e.device)
}

type structureAdapter struct{}

func (structureAdapter) HasVideoStructure(mountPoint string) (bool, error) {
	return disc.HasVideoStructure(mountPoint)
}

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process all pending queue jobs against the drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "discmapper.log")},
			})
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ripper, err := makemkv.New(cfg.MakeMKV.Binary, cfg.MakeMKV.RipTimeoutSeconds)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			wake := make(chan struct{}, 1)
			monitor := disc.NewInsertionMonitor(logger, cfg.MakeMKV.Device, func() {
				select {
				case wake <- struct{}{}:
				default:
				}
			})
			if err := monitor.Start(ctx); err != nil {
				return err
			}
			defer monitor.Stop()

			deps := pipeline.Deps{
				Ripper:    ripper,
				Probe:     probe.New(cfg.FFprobeBinary()),
				Presence:  disc.NewMediaPresence(cfg.MakeMKV.Device),
				Ejector:   ejectorAdapter{device: cfg.MakeMKV.Device, inner: disc.NewEjector()},
				Structure: structureAdapter{},
				Wake:      wake,
			}
			if shouldColorize(os.Stdin) {
				deps.Disambiguator = newPromptDisambiguator(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			p, err := pipeline.New(cfg, logger, deps)
			if err != nil {
				return err
			}
			r, err := runner.New(cfg, logger, store, p)
			if err != nil {
				return err
			}

			started := time.Now()
			stats, runErr := r.Run(ctx)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nProcessed %d job(s) in %s: %d completed, %d review, %d unable, %d failed\n",
				stats.Processed, time.Since(started).Round(time.Second),
				stats.Completed, stats.Review, stats.Unable, stats.Failed)
			return runErr
		},
	}
}
