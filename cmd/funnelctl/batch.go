package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hivelog/hivelog-api/internal/domain/funnel"
	"github.com/spf13/cobra"
)

type batchOptions struct {
	snapshot string
	format   string
	batchID  string
	alpha    float64
	z        float64
}

func newBatchCmd(newLogger func(*cobra.Command) *slog.Logger) *cobra.Command {
	defaults := funnel.NewDefaultParams()
	opts := batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Print acceptance, emergence and mating metrics for one batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(cmd)

			batchID, err := uuid.Parse(opts.batchID)
			if err != nil {
				return fmt.Errorf("invalid --batch %q: %w", opts.batchID, err)
			}
			params := funnel.Params{SmoothingAlpha: opts.alpha, ConfidenceZ: opts.z}
			if err := params.Validate(); err != nil {
				return err
			}

			snap, err := loadSnapshot(opts.snapshot, opts.format, cmd.InOrStdin())
			if err != nil {
				return err
			}
			log.Debug("snapshot loaded",
				slog.Int("batches", len(snap.Batches)),
				slog.Int("cells", len(snap.Cells)))

			batch := snap.batch(batchID)
			if batch == nil {
				return fmt.Errorf("batch %s not found in snapshot", batchID)
			}

			metrics, err := funnel.NewDefaultService().BatchMetricsWithParams(batch, snap.Cells, params)
			if err != nil {
				return err
			}
			if metrics.TrackedCells > metrics.DeclaredStartCount {
				log.Warn("batch tracks more cells than declared",
					slog.String("batch_id", batchID.String()),
					slog.Int("declared_start_count", metrics.DeclaredStartCount),
					slog.Int("tracked_cells", metrics.TrackedCells))
			}
			return writeJSON(cmd.OutOrStdout(), metrics)
		},
	}

	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "snapshot file, or - for stdin")
	cmd.Flags().StringVar(&opts.format, "format", "auto", "snapshot format (auto, json, yaml)")
	cmd.Flags().StringVar(&opts.batchID, "batch", "", "batch ID")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", defaults.SmoothingAlpha, "additive smoothing constant")
	cmd.Flags().Float64Var(&opts.z, "z", defaults.ConfidenceZ, "z-score for the Wilson interval")
	_ = cmd.MarkFlagRequired("snapshot")
	_ = cmd.MarkFlagRequired("batch")
	return cmd
}
