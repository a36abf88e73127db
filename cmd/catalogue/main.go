// Command catalogue runs the catalogue API and its maintenance tasks.
//
//	catalogue serve              # HTTP (+ gRPC health when GRPC_PORT is set)
//	catalogue migrate            # apply pending migrations
//	catalogue migrate:rollback
//	catalogue migrate:status
//	catalogue seed               # sample catalogue and an admin user
//	catalogue route:list
//	catalogue cascade:reconcile  # repair product flags under hidden categories
//	catalogue user:create --email a@b.c --name Ana --password ... --role admin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalogue/config"
	_ "github.com/shashiranjanraj/catalogue/database/migrations"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

var closeLogs = func() {}

var rootCmd = &cobra.Command{
	Use:           "catalogue",
	Short:         "Product catalogue and content API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		closer, err := logger.Setup()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		closeLogs = closer
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogs()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(userCreateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		closeLogs()
		os.Exit(1)
	}
}
