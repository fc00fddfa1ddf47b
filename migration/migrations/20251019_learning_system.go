package migrations

import (
	"log"

	"betlearning/migration"
	"betlearning/models"

	"gorm.io/gorm"
)

func init() {
	if err := migration.Register("20251019_learning_system", Migration20251019LearningSystem); err != nil {
		log.Fatalf("Failed to register migration 20251019_learning_system: %v", err)
	}
}

// Migration20251019LearningSystem creates the predictions and learning_insights tables
func Migration20251019LearningSystem(db *gorm.DB) error {
	// Create predictions table
	if err := db.AutoMigrate(&models.Prediction{}); err != nil {
		return err
	}

	// Create learning_insights table
	if err := db.AutoMigrate(&models.Insight{}); err != nil {
		return err
	}

	// === Composite indexes for the metric and listing queries ===
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_fixture_type ON predictions(fixture_id, prediction_type)",
		"CREATE INDEX IF NOT EXISTS idx_verified_type ON predictions(verified, prediction_type)",
		"CREATE INDEX IF NOT EXISTS idx_created_verified ON predictions(created_at, verified)",
		"CREATE INDEX IF NOT EXISTS idx_insights_live ON learning_insights(is_active, priority, created_at)",
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
