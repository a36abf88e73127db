// Package migration runs ordered, batch-tracked schema migrations.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260301000000_create_categories_table", &CreateCategoriesTable{})
//	}
//
// and are applied with `catalogue migrate`, reverted batch by batch with
// `catalogue migrate:rollback`.
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "catalogue_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("no migrations registered")

// Register adds a migration. Names are timestamp-prefixed and applied in
// lexical order.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets where progress lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

func New(db *gorm.DB, opts ...Option) *Runner {
	r := &Runner{db: db, out: os.Stdout}
	for _, o := range opts {
		o(r)
	}
	return r
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

func (r *Runner) pending() ([]registeredMigration, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(ran))
	for _, rec := range ran {
		done[rec.Name] = true
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if !done[reg.name] {
			pending = append(pending, reg)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].name < pending[j].name })
	return pending, nil
}

// Run applies every pending migration as one batch.
func (r *Runner) Run() error {
	if len(registry) == 0 {
		return ErrNoMigrations
	}
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch := r.lastBatch() + 1
	for _, reg := range pending {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", reg.name)

		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverts the most recent batch in reverse order.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch := r.lastBatch()
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("name desc").Find(&records).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return err
		}
		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}

	logger.Info("migration: rolled back", "batch", batch, "count", len(records))
	return nil
}

// Status prints every registered migration and whether it has run.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return err
	}
	byName := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		byName[rec.Name] = rec
	}

	names := make([]string, 0, len(registry))
	for _, reg := range registry {
		names = append(names, reg.name)
	}
	sort.Strings(names)

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("─", 80))
	for _, name := range names {
		if rec, ok := byName[name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch() int {
	var maxBatch struct{ Max int }
	r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&maxBatch)
	return maxBatch.Max
}
