package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/database/seeders"
	"github.com/shashiranjanraj/catalogue/internal/kernel"
	"github.com/shashiranjanraj/catalogue/pkg/cache"
	"github.com/shashiranjanraj/catalogue/pkg/database"
	"github.com/shashiranjanraj/catalogue/pkg/migration"
)

func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

// catalogue migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Running migrations…")
			return migration.New(db, migration.WithOutput(os.Stdout)).Run()
		})
	},
}

// catalogue migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Rolling back last batch…")
			return migration.New(db, migration.WithOutput(os.Stdout)).Rollback()
		})
	},
}

// catalogue migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db, migration.WithOutput(os.Stdout)).Status()
		})
	},
}

// catalogue seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed an admin user and a sample catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			k, err := kernel.Boot(cmd.Context(), kernel.WithDB(db), kernel.WithCache(cache.Noop{}))
			if err != nil {
				return err
			}
			defer k.Close()

			fmt.Println("Running seeders…")
			return seeders.RunAll(cmd.Context(), k.Catalog, os.Stdout)
		})
	},
}
