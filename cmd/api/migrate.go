package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/checkout-service/pkg/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			applied, err := database.RunMigrations(ctx, pool)
			if err != nil {
				return err
			}
			log.Info().Strs("applied", applied).Msg("migrations complete")
			return nil
		},
	}
}
