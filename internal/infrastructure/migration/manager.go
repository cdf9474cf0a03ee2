package migration

import (
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/infrastructure/persistence/models"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// Manager runs database migrations with a configured strategy.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager selects the strategy named in config: "golang-migrate",
// "goose", or "automigrate".
func NewManager(strategyName, scriptsPath string) (*Manager, error) {
	absPath, err := filepath.Abs(scriptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scripts path: %w", err)
	}

	var strategy Strategy
	switch strings.ToLower(strategyName) {
	case "golang-migrate", "golang_migrate", "":
		strategy = NewGolangMigrateStrategy(absPath)
	case "goose":
		strategy = NewGooseStrategy(absPath)
	case "automigrate":
		strategy = NewGormAutoMigrateStrategy()
	default:
		return nil, fmt.Errorf("unknown migration strategy: %s", strategyName)
	}

	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}, nil
}

// AllModels lists every persistence model, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PricingPlanModel{},
		&models.CvTemplateModel{},
		&models.CvModel{},
		&models.CoverLetterModel{},
		&models.JobApplicationModel{},
		&models.ChatSessionModel{},
		&models.ChatMessageModel{},
	}
}

// Up applies pending migrations.
func (m *Manager) Up(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, AllModels()...); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed", "strategy", m.strategy.GetName())
	return nil
}

// Down rolls back the given number of migrations.
func (m *Manager) Down(db *gorm.DB, steps int) error {
	if steps < 1 {
		steps = 1
	}
	return m.strategy.MigrateDown(db, steps)
}

// Strategy returns the active strategy.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}
