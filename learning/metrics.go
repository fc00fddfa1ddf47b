package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"betlearning/models"
)

const (
	DefaultMetricsDays = 30
	MaxMetricsDays     = 365
)

// MetricsQuery selects the window GetMetrics aggregates over
type MetricsQuery struct {
	PredictionType *string
	Days           int // 0 means DefaultMetricsDays
	MustWinLevel   *string
}

func (q *MetricsQuery) normalize() error {
	if q.Days == 0 {
		q.Days = DefaultMetricsDays
	}
	if q.Days < 1 || q.Days > MaxMetricsDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrValidation, MaxMetricsDays)
	}
	q.PredictionType = nonEmpty(q.PredictionType)
	q.MustWinLevel = nonEmpty(q.MustWinLevel)
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// GetMetrics aggregates every prediction created in the last q.Days days
func (s *Service) GetMetrics(ctx context.Context, q MetricsQuery) (*models.MetricsReport, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	until := s.clock()
	since := until.Add(-time.Duration(q.Days) * 24 * time.Hour)

	query := s.db.WithContext(ctx).Where("created_at >= ?", since)
	if q.PredictionType != nil {
		query = query.Where("prediction_type = ?", *q.PredictionType)
	}
	if q.MustWinLevel != nil {
		query = query.Where("(must_win_home_level = ? OR must_win_away_level = ?)", *q.MustWinLevel, *q.MustWinLevel)
	}

	var predictions []models.Prediction
	if err := query.Find(&predictions).Error; err != nil {
		return nil, persistenceError("load metrics window", err)
	}

	report := aggregate(predictions)
	report.Period = models.MetricsPeriod{Days: q.Days, Since: since, Until: until}
	report.Filters = models.MetricsFilters{PredictionType: q.PredictionType, MustWinLevel: q.MustWinLevel}
	return report, nil
}

type calibrationSum struct {
	confidence float64
	hits       int64
	count      int64
}

// aggregate computes the report body. Every ratio is 0 when its denominator is.
func aggregate(predictions []models.Prediction) *models.MetricsReport {
	verified := make([]models.Prediction, 0, len(predictions))
	for _, p := range predictions {
		if p.Verified {
			verified = append(verified, p)
		}
	}

	total := int64(len(predictions))
	verifiedCount := int64(len(verified))

	var correct int64
	var profitLoss, confidenceSum float64
	bins := make(map[string]*calibrationSum)
	for _, p := range verified {
		hit := p.WasCorrect != nil && *p.WasCorrect
		if hit {
			correct++
		}
		if p.ProfitLoss != nil {
			profitLoss += *p.ProfitLoss
		}
		if p.Confidence == nil {
			continue
		}
		confidenceSum += *p.Confidence

		key := models.CalibrationBucket(*p.Confidence)
		bin, ok := bins[key]
		if !ok {
			bin = &calibrationSum{}
			bins[key] = bin
		}
		bin.confidence += *p.Confidence
		bin.count++
		if hit {
			bin.hits++
		}
	}

	calibration := make(map[string]models.CalibrationBin, len(bins))
	for key, bin := range bins {
		calibration[key] = models.CalibrationBin{
			Predicted: bin.confidence / float64(bin.count),
			Actual:    float64(bin.hits) / float64(bin.count),
			Count:     bin.count,
		}
	}

	roi := ratio(profitLoss, verifiedCount)
	return &models.MetricsReport{
		Volume: models.VolumeMetrics{
			TotalPredictions: total,
			Verified:         verifiedCount,
			Pending:          total - verifiedCount,
		},
		Accuracy: models.AccuracyMetrics{
			Correct:      correct,
			Incorrect:    verifiedCount - correct,
			AccuracyRate: ratio(float64(correct), verifiedCount),
		},
		Confidence: models.ConfidenceMetrics{
			Average:     ratio(confidenceSum, verifiedCount),
			Calibration: calibration,
		},
		Financial: models.FinancialMetrics{
			TotalProfitLoss: profitLoss,
			ROI:             roi,
			ROIPercentage:   roi * 100,
		},
		ByMustWinLevel: mustWinBreakdown(verified),
	}
}

func mustWinBreakdown(verified []models.Prediction) map[string]models.MustWinMetrics {
	out := make(map[string]models.MustWinMetrics)
	for _, level := range models.MustWinLevels {
		var count, correct int64
		var confidence float64
		for _, p := range verified {
			if !hasLevel(p.MustWinHomeLevel, level) && !hasLevel(p.MustWinAwayLevel, level) {
				continue
			}
			count++
			if p.WasCorrect != nil && *p.WasCorrect {
				correct++
			}
			if p.Confidence != nil {
				confidence += *p.Confidence
			}
		}
		if count == 0 {
			continue
		}
		out[level] = models.MustWinMetrics{
			Count:         count,
			Accuracy:      ratio(float64(correct), count),
			AvgConfidence: ratio(confidence, count),
		}
	}
	return out
}

func hasLevel(got *string, level string) bool {
	return got != nil && *got == level
}

func ratio(num float64, den int64) float64 {
	if den == 0 {
		return 0
	}
	return num / float64(den)
}
