package main

import (
	"context"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users table if it does not exist",
	Long: `Connect to DATABASE_URL, apply the store pragmas and create the users
table. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	gw, err := a.openStore(context.Background())
	if err != nil {
		return err
	}
	return gw.Close()
}
