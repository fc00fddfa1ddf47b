// Package migration keeps a registry of named schema migrations and applies
// the pending ones in name order.
package migration

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MigrationFunc changes the schema. It runs inside a transaction.
type MigrationFunc func(db *gorm.DB) error

// SchemaMigration records an applied migration
type SchemaMigration struct {
	Name      string    `gorm:"primaryKey;size:100"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

var (
	mu       sync.Mutex
	registry = map[string]MigrationFunc{}
)

// Register adds a migration. Names sort chronologically, so they start with a date.
func Register(name string, fn MigrationFunc) error {
	mu.Lock()
	defer mu.Unlock()

	if name == "" || fn == nil {
		return fmt.Errorf("migration name and function are required")
	}
	if _, exists := registry[name]; exists {
		return fmt.Errorf("migration %s already registered", name)
	}
	registry[name] = fn
	return nil
}

// Registered lists the registered migration names in apply order
func Registered() []string {
	mu.Lock()
	defer mu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MigrateAll applies every registered migration not yet recorded in schema_migrations
func MigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var applied []SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("failed to load applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, m := range applied {
		done[m.Name] = true
	}

	for _, name := range Registered() {
		if done[name] {
			continue
		}
		mu.Lock()
		fn := registry[name]
		mu.Unlock()

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := fn(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Name: name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		log.Info().Str("migration", name).Msg("migration applied")
	}
	return nil
}
