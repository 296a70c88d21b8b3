// Package migration applies the database schema.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	sharedConfig "github.com/tillgate/tillgate/internal/shared/config"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

// DefaultScriptsDir is where `migrate create` writes new scripts.
const DefaultScriptsDir = "internal/infrastructure/migration/scripts"

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for MySQL and gorm AutoMigrate for SQLite; the
// shipped scripts are MySQL DDL.
func NewManager(cfg sharedConfig.DatabaseConfig, log logger.Interface) *Manager {
	var strategy Strategy
	if cfg.IsSQLite() {
		strategy = NewGormAutoMigrateStrategy(log)
	} else {
		strategy = NewGooseStrategy("mysql", log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	vs, err := m.versioned()
	if err != nil {
		return err
	}
	return vs.MigrateDown(db, steps)
}

func (m *Manager) Status(db *gorm.DB) error {
	vs, err := m.versioned()
	if err != nil {
		return err
	}
	return vs.Status(db)
}

func (m *Manager) Version(db *gorm.DB) (int64, error) {
	vs, err := m.versioned()
	if err != nil {
		return 0, err
	}
	return vs.GetVersion(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

func (m *Manager) versioned() (VersionedStrategy, error) {
	vs, ok := m.strategy.(VersionedStrategy)
	if !ok {
		return nil, fmt.Errorf("strategy %s does not track versions", m.strategy.GetName())
	}
	return vs, nil
}
