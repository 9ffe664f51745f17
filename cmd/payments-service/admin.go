package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurpe/marketplace-payments/internal/auth"
	"github.com/nurpe/marketplace-payments/internal/config"
	"github.com/nurpe/marketplace-payments/internal/db"
	"github.com/nurpe/marketplace-payments/internal/logger"
)

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, tokenCmd)
	tokenCmd.Flags().Int64("profile", 0, "Profile id to put in the token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime, 0 for no expiry")
	_ = tokenCmd.MarkFlagRequired("profile")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.New(cfg.Environment)
		database, err := db.New(cfg, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := db.Migrate(database); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DB.Driver).Msg("schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo marketplace into an empty, migrated database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.New(cfg.Environment)
		database, err := db.New(cfg, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		fixtures := db.DemoFixtures(time.Now())
		if err := db.Seed(cmd.Context(), database, fixtures); err != nil {
			return err
		}
		log.Info().
			Int("profiles", len(fixtures.Profiles)).
			Int("contracts", len(fixtures.Contracts)).
			Int("jobs", len(fixtures.Jobs)).
			Msg("demo data seeded")
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a profile (development)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		profileID, _ := cmd.Flags().GetInt64("profile")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := auth.NewParser(cfg.Auth.AccessSecret).Issue(profileID, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
