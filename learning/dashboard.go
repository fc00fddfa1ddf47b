package learning

import (
	"context"

	"betlearning/models"
)

// GetDashboard consolidates overall metrics, a per type summary, the top
// live insights and the recommendations derived from them
func (s *Service) GetDashboard(ctx context.Context, days int) (*models.Dashboard, error) {
	overall, err := s.GetMetrics(ctx, MetricsQuery{Days: days})
	if err != nil {
		return nil, err
	}

	byType := make(map[string]models.TypeSummary)
	for _, predictionType := range models.DashboardPredictionTypes {
		t := predictionType
		m, err := s.GetMetrics(ctx, MetricsQuery{PredictionType: &t, Days: days})
		if err != nil {
			return nil, err
		}
		if m.Volume.TotalPredictions == 0 {
			continue
		}
		byType[predictionType] = models.TypeSummary{
			Accuracy:      m.Accuracy.AccuracyRate,
			ROI:           m.Financial.ROI,
			Count:         m.Volume.Verified,
			AvgConfidence: m.Confidence.Average,
		}
	}

	live, err := s.ListInsights(ctx, InsightFilter{Limit: dashboardInsights})
	if err != nil {
		return nil, err
	}
	insights := make([]models.InsightPublic, 0, len(live))
	for i := range live {
		insights = append(insights, live[i].ToPublic())
	}

	return &models.Dashboard{
		Overall:         *overall,
		ByType:          byType,
		Insights:        insights,
		Recommendations: GenerateRecommendations(byType, overall),
		GeneratedAt:     s.clock(),
	}, nil
}
