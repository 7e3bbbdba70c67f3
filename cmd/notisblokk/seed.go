// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package main

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/notisblokk/notisblokk/internal/accounts"
	accountspg "github.com/notisblokk/notisblokk/internal/accounts/postgres"
	"github.com/notisblokk/notisblokk/internal/auth"
	"github.com/notisblokk/notisblokk/internal/config"
	"github.com/notisblokk/notisblokk/internal/notes"
	notespg "github.com/notisblokk/notisblokk/internal/notes/postgres"
	"github.com/notisblokk/notisblokk/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// defaultStatuses are the workflow statuses created on first run.
var defaultStatuses = []struct {
	name  string
	color string
}{
	{"Pending", "#FFA500"},
	{"In Progress", "#4A90E2"},
	{notes.StatusResolved, "#10B981"},
	{"Suspended", "#9CA3AF"},
	{notes.StatusCancelled, "#EF4444"},
}

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout       time.Duration
	adminEmail    string
	adminPassword string
	adminName     string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed default statuses and an admin account",
		Long: `Creates the default workflow statuses and, if credentials are given,
an initial admin account. This command is idempotent - it will not
create duplicates when run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.adminEmail, "admin-email", "", "email for the initial admin account (empty = skip)")
	cmd.Flags().StringVar(&cfg.adminPassword, "admin-password", "", "password for the initial admin account")
	cmd.Flags().StringVar(&cfg.adminName, "admin-name", "Administrator", "name for the initial admin account")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	appCfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	if appCfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (config file or DATABASE_URL)")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Open(ctx, appCfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	statusRepo := notespg.NewStatusRepository(pool)
	for _, s := range defaultStatuses {
		status, err := notes.NewStatus(s.name, s.color)
		if err != nil {
			return err
		}
		if err := statusRepo.Create(ctx, status); err != nil {
			if store.IsUniqueViolation(err) {
				cmd.Printf("status %q already exists, skipping\n", s.name)
				continue
			}
			return oops.Code("SEED_FAILED").
				With("status", s.name).
				Wrap(err)
		}
		cmd.Printf("created status %q\n", s.name)
	}

	if cfg.adminEmail == "" {
		cmd.Println("Seed completed")
		return nil
	}
	if cfg.adminPassword == "" {
		return oops.Code("SEED_FAILED").Errorf("admin-password is required when admin-email is set")
	}

	hasher, err := auth.NewGatedHasher(auth.NewArgon2idHasher(), 0)
	if err != nil {
		return err
	}
	accountService, err := accounts.NewService(accountspg.NewAccountRepository(pool), hasher)
	if err != nil {
		return err
	}

	if _, err := accountService.Register(ctx, cfg.adminName, cfg.adminEmail, "", cfg.adminPassword); err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			cmd.Println("admin account already exists, skipping")
		} else {
			return oops.Code("SEED_FAILED").
				With("operation", "create admin account").
				Wrap(err)
		}
	} else {
		cmd.Printf("created admin account %s\n", cfg.adminEmail)
	}

	cmd.Println("Seed completed")
	return nil
}
