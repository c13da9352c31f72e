package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/database"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that PostgreSQL answers within the probe timeout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.New(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Probe(cmd.Context(), db, cfg.ProbeTimeout); err != nil {
				logger.Error("probe failed", zap.Error(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "healthy")
			return nil
		},
	}
}
