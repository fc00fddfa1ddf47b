package models

import (
	"time"

	"gorm.io/datatypes"
)

// Confidence calibration buckets, lowest first
const (
	Bucket0To50   = "0-50%"
	Bucket50To60  = "50-60%"
	Bucket60To70  = "60-70%"
	Bucket70To80  = "70-80%"
	Bucket80To90  = "80-90%"
	Bucket90To100 = "90-100%"
)

// CalibrationBuckets lists the buckets in ascending confidence order
var CalibrationBuckets = []string{Bucket0To50, Bucket50To60, Bucket60To70, Bucket70To80, Bucket80To90, Bucket90To100}

// CalibrationBucket returns the bucket a confidence value falls into
func CalibrationBucket(confidence float64) string {
	switch {
	case confidence < 0.5:
		return Bucket0To50
	case confidence < 0.6:
		return Bucket50To60
	case confidence < 0.7:
		return Bucket60To70
	case confidence < 0.8:
		return Bucket70To80
	case confidence < 0.9:
		return Bucket80To90
	default:
		return Bucket90To100
	}
}

// MetricsReport is the performance summary over a window of predictions
type MetricsReport struct {
	Period         MetricsPeriod             `json:"period"`
	Filters        MetricsFilters            `json:"filters"`
	Volume         VolumeMetrics             `json:"volume"`
	Accuracy       AccuracyMetrics           `json:"accuracy"`
	Confidence     ConfidenceMetrics         `json:"confidence"`
	Financial      FinancialMetrics          `json:"financial"`
	ByMustWinLevel map[string]MustWinMetrics `json:"by_must_win_level"`
}

type MetricsPeriod struct {
	Days  int       `json:"days"`
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

type MetricsFilters struct {
	PredictionType *string `json:"prediction_type"`
	MustWinLevel   *string `json:"must_win_level"`
}

type VolumeMetrics struct {
	TotalPredictions int64 `json:"total_predictions"`
	Verified         int64 `json:"verified"`
	Pending          int64 `json:"pending"`
}

type AccuracyMetrics struct {
	Correct      int64   `json:"correct"`
	Incorrect    int64   `json:"incorrect"`
	AccuracyRate float64 `json:"accuracy_rate"`
}

type ConfidenceMetrics struct {
	Average     float64                   `json:"average"`
	Calibration map[string]CalibrationBin `json:"calibration"`
}

// CalibrationBin compares mean stated confidence with the observed hit rate
type CalibrationBin struct {
	Predicted float64 `json:"predicted"`
	Actual    float64 `json:"actual"`
	Count     int64   `json:"count"`
}

type FinancialMetrics struct {
	TotalProfitLoss float64 `json:"total_profit_loss"`
	ROI             float64 `json:"roi"`
	ROIPercentage   float64 `json:"roi_percentage"`
}

type MustWinMetrics struct {
	Count         int64   `json:"count"`
	Accuracy      float64 `json:"accuracy"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// TypeSummary is the per prediction type line of the dashboard
type TypeSummary struct {
	Accuracy      float64 `json:"accuracy"`
	ROI           float64 `json:"roi"`
	Count         int64   `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Recommendation kinds
const (
	RecommendationSuccess = "success"
	RecommendationWarning = "warning"
	RecommendationAlert   = "alert"
	RecommendationInfo    = "info"
)

type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Dashboard is the consolidated view served to the front end
type Dashboard struct {
	Overall         MetricsReport          `json:"overall"`
	ByType          map[string]TypeSummary `json:"by_type"`
	Insights        []InsightPublic        `json:"insights"`
	Recommendations []Recommendation       `json:"recommendations"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// PerformanceSnapshot persists a MetricsReport so performance can be tracked over time
type PerformanceSnapshot struct {
	ID             int64   `json:"id" gorm:"primaryKey"`
	PredictionType string  `json:"prediction_type" gorm:"not null;size:50;index"` // empty for all types
	MustWinLevel   *string `json:"must_win_level" gorm:"size:20"`

	PeriodStart time.Time `json:"period_start" gorm:"not null"`
	PeriodEnd   time.Time `json:"period_end" gorm:"not null"`

	TotalPredictions int64 `json:"total_predictions"`
	TotalVerified    int64 `json:"total_verified"`
	TotalPending     int64 `json:"total_pending"`

	TotalCorrect   int64   `json:"total_correct"`
	TotalIncorrect int64   `json:"total_incorrect"`
	AccuracyRate   float64 `json:"accuracy_rate"`

	AvgConfidence         float64        `json:"avg_confidence"`
	ConfidenceCalibration datatypes.JSON `json:"confidence_calibration"`

	TotalProfitLoss float64 `json:"total_profit_loss"`
	ROI             float64 `json:"roi"`

	MetricsByMustWin datatypes.JSON `json:"metrics_by_must_win"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

// TableName keeps the legacy table name
func (PerformanceSnapshot) TableName() string {
	return "performance_metrics"
}
