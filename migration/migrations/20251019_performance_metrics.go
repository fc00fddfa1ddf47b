package migrations

import (
	"log"

	"betlearning/migration"
	"betlearning/models"

	"gorm.io/gorm"
)

func init() {
	if err := migration.Register("20251019_performance_metrics", Migration20251019PerformanceMetrics); err != nil {
		log.Fatalf("Failed to register migration 20251019_performance_metrics: %v", err)
	}
}

// Migration20251019PerformanceMetrics creates the table holding metric snapshots
func Migration20251019PerformanceMetrics(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.PerformanceSnapshot{}); err != nil {
		return err
	}

	return db.Exec("CREATE INDEX IF NOT EXISTS idx_performance_type_created ON performance_metrics(prediction_type, created_at)").Error
}
