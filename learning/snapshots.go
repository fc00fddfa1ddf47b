package learning

import (
	"context"
	"encoding/json"

	"betlearning/models"

	"gorm.io/datatypes"
)

const (
	DefaultSnapshotLimit = 20
	MaxSnapshotLimit     = 100
)

// SnapshotMetrics computes the metrics for q and persists them so that
// performance can be compared across periods
func (s *Service) SnapshotMetrics(ctx context.Context, q MetricsQuery) (*models.PerformanceSnapshot, error) {
	report, err := s.GetMetrics(ctx, q)
	if err != nil {
		return nil, err
	}

	calibration, err := json.Marshal(report.Confidence.Calibration)
	if err != nil {
		return nil, err
	}
	byMustWin, err := json.Marshal(report.ByMustWinLevel)
	if err != nil {
		return nil, err
	}

	snapshot := models.PerformanceSnapshot{
		MustWinLevel:          report.Filters.MustWinLevel,
		PeriodStart:           report.Period.Since,
		PeriodEnd:             report.Period.Until,
		TotalPredictions:      report.Volume.TotalPredictions,
		TotalVerified:         report.Volume.Verified,
		TotalPending:          report.Volume.Pending,
		TotalCorrect:          report.Accuracy.Correct,
		TotalIncorrect:        report.Accuracy.Incorrect,
		AccuracyRate:          report.Accuracy.AccuracyRate,
		AvgConfidence:         report.Confidence.Average,
		ConfidenceCalibration: datatypes.JSON(calibration),
		TotalProfitLoss:       report.Financial.TotalProfitLoss,
		ROI:                   report.Financial.ROI,
		MetricsByMustWin:      datatypes.JSON(byMustWin),
		CreatedAt:             s.clock(),
	}
	if report.Filters.PredictionType != nil {
		snapshot.PredictionType = *report.Filters.PredictionType
	}

	if err := s.db.WithContext(ctx).Create(&snapshot).Error; err != nil {
		return nil, persistenceError("create snapshot", err)
	}

	s.log.Info().
		Int64("snapshot_id", snapshot.ID).
		Str("prediction_type", snapshot.PredictionType).
		Int64("verified", snapshot.TotalVerified).
		Msg("metrics snapshot stored")
	return &snapshot, nil
}

// ListSnapshots returns stored snapshots, newest first. A nil predictionType
// lists every snapshot, an empty one only the all-types snapshots.
func (s *Service) ListSnapshots(ctx context.Context, predictionType *string, limit int) ([]models.PerformanceSnapshot, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	if limit > MaxSnapshotLimit {
		limit = MaxSnapshotLimit
	}

	query := s.db.WithContext(ctx)
	if predictionType != nil {
		query = query.Where("prediction_type = ?", *predictionType)
	}

	snapshots := make([]models.PerformanceSnapshot, 0)
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, persistenceError("list snapshots", err)
	}
	return snapshots, nil
}
