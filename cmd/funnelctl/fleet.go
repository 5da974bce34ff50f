package main

import (
	"log/slog"

	"github.com/hivelog/hivelog-api/internal/domain/funnel"
	"github.com/spf13/cobra"
)

func newFleetCmd(newLogger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var snapshotPath, format string

	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Print stage performance and status distribution across every batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := newLogger(cmd)

			snap, err := loadSnapshot(snapshotPath, format, cmd.InOrStdin())
			if err != nil {
				return err
			}

			fleet, err := funnel.NewDefaultService().FleetAnalytics(snap.Batches, snap.Cells)
			if err != nil {
				return err
			}
			if !fleet.Consistency.Consistent() {
				log.Warn("snapshot is inconsistent",
					slog.Int("orphan_cells", fleet.Consistency.OrphanCells),
					slog.Int("over_tracked_batches", len(fleet.Consistency.OverTrackedBatches)))
			}
			return writeJSON(cmd.OutOrStdout(), fleet)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "snapshot file, or - for stdin")
	cmd.Flags().StringVar(&format, "format", "auto", "snapshot format (auto, json, yaml)")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}
