// Package migrations holds the schema history. Each file registers its
// migrations from init(); importing the package is enough to make them
// available to the runner.
package migrations

import (
	"fmt"

	"gorm.io/gorm"
)

// liveSlugIndex enforces slug uniqueness among non-deleted rows. MySQL has no
// partial indexes, so there the store-level check is the only guard.
func liveSlugIndex(db *gorm.DB, table string) error {
	name := "ux_" + table + "_slug_live"
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		return db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (slug) WHERE is_deleted = false", name, table)).Error
	case "sqlserver":
		return db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX %s ON %s (slug) WHERE is_deleted = 0", name, table)).Error
	default:
		return nil
	}
}

func dropIndex(db *gorm.DB, table, name string) error {
	if !db.Migrator().HasIndex(table, name) {
		return nil
	}
	return db.Migrator().DropIndex(table, name)
}
