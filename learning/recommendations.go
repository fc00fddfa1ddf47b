package learning

import (
	"fmt"
	"sort"

	"betlearning/models"
)

// Fixed policy thresholds
const (
	bestROIThreshold       = 0.05
	worstROIThreshold      = -0.02
	minTypeSample          = 10
	highAccuracyThreshold  = 0.65
	lowAccuracyThreshold   = 0.50
	minVerifiedForAlert    = 20
	minCalibrationSample   = 10
	calibrationDriftLimit  = 0.15
	minVerificationRate    = 0.5
	minTotalForVerifyNudge = 20
)

// GenerateRecommendations turns aggregated metrics into advisories.
// It is deterministic: types are visited in dashboard order, so the first of
// tied types wins, and calibration buckets in ascending confidence order.
func GenerateRecommendations(byType map[string]models.TypeSummary, overall *models.MetricsReport) []models.Recommendation {
	recs := make([]models.Recommendation, 0)

	if len(byType) > 0 {
		names := typeOrder(byType)

		best, worst := names[0], names[0]
		for _, name := range names[1:] {
			if byType[name].ROI > byType[best].ROI {
				best = name
			}
			if byType[name].ROI < byType[worst].ROI {
				worst = name
			}
		}

		if roi := byType[best].ROI; roi > bestROIThreshold {
			recs = append(recs, models.Recommendation{
				Type:    models.RecommendationSuccess,
				Message: fmt.Sprintf("Método '%s' tem excelente performance (ROI: %.1f%%) - priorizar este tipo de análise", best, roi*100),
			})
		}
		if w := byType[worst]; w.ROI < worstROIThreshold && w.Count > minTypeSample {
			recs = append(recs, models.Recommendation{
				Type:    models.RecommendationWarning,
				Message: fmt.Sprintf("Método '%s' com ROI negativo (%.1f%%) - revisar fórmulas ou evitar", worst, w.ROI*100),
			})
		}
	}

	if overall == nil {
		return recs
	}

	accuracy := overall.Accuracy.AccuracyRate
	if accuracy > highAccuracyThreshold {
		recs = append(recs, models.Recommendation{
			Type:    models.RecommendationSuccess,
			Message: fmt.Sprintf("Acurácia geral excelente (%.1f%%) - sistema está bem calibrado", accuracy*100),
		})
	} else if accuracy < lowAccuracyThreshold && overall.Volume.Verified > minVerifiedForAlert {
		recs = append(recs, models.Recommendation{
			Type:    models.RecommendationAlert,
			Message: fmt.Sprintf("Acurácia baixa (%.1f%%) - revisar parâmetros urgentemente", accuracy*100),
		})
	}

	for _, bucket := range models.CalibrationBuckets {
		bin, ok := overall.Confidence.Calibration[bucket]
		if !ok || bin.Count < minCalibrationSample {
			continue
		}
		diff := bin.Predicted - bin.Actual
		if diff < 0 {
			diff = -diff
		}
		if diff <= calibrationDriftLimit {
			continue
		}
		if bin.Predicted > bin.Actual {
			recs = append(recs, models.Recommendation{
				Type:    models.RecommendationWarning,
				Message: fmt.Sprintf("Confiança sobre-estimada na faixa %s (previsto %.0f%%, real %.0f%%)", bucket, bin.Predicted*100, bin.Actual*100),
			})
		} else {
			recs = append(recs, models.Recommendation{
				Type:    models.RecommendationInfo,
				Message: fmt.Sprintf("Confiança subestimada na faixa %s - podemos ser mais confiantes", bucket),
			})
		}
	}

	total := overall.Volume.TotalPredictions
	verifiedRate := ratio(float64(overall.Volume.Verified), total)
	if verifiedRate < minVerificationRate && total > minTotalForVerifyNudge {
		recs = append(recs, models.Recommendation{
			Type:    models.RecommendationInfo,
			Message: fmt.Sprintf("Apenas %.0f%% das predições foram verificadas - aumentar taxa de verificação para melhor aprendizado", verifiedRate*100),
		})
	}

	return recs
}

// typeOrder lists the dashboard types present in byType in display order,
// followed by any other types by name
func typeOrder(byType map[string]models.TypeSummary) []string {
	names := make([]string, 0, len(byType))
	known := make(map[string]bool, len(models.DashboardPredictionTypes))
	for _, name := range models.DashboardPredictionTypes {
		known[name] = true
		if _, ok := byType[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range byType {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
