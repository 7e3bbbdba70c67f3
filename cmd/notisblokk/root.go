// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the notisblokk CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notisblokk",
		Short: "Notisblokk - deadline-tracking notes",
		Long: `Notisblokk is a deadline-tracking note server with tagged notes,
workflow statuses, urgency alerts and session-based authentication.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
