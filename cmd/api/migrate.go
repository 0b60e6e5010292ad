package main

import (
	"errors"

	"github.com/crucial707/hrms/internal/db"
	"github.com/spf13/cobra"
)

var errRefuseDown = errors.New("refusing to drop schema without --yes")

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			version, err := db.Migrate(cfg.DatabaseURL())
			if err != nil {
				return err
			}
			logger.Info().Uint("version", version).Msg("migrations applied")
			return nil
		},
	})

	var confirm bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert every migration (drops all data)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errRefuseDown
			}
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := db.Rollback(cfg.DatabaseURL()); err != nil {
				return err
			}
			logger.Warn().Msg("all migrations reverted")
			return nil
		},
	}
	down.Flags().BoolVar(&confirm, "yes", false, "confirm dropping all tables")
	cmd.AddCommand(down)

	return cmd
}
