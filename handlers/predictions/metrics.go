package predictions

import (
	"fmt"
	"net/http"

	"betlearning/handlers/params"
	"betlearning/learning"
	"betlearning/middleware"
)

// MetricsHandler handles GET /predictions/metrics
// Query: type, days (default 30, 1-365), must_win_level
func MetricsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := daysParam(r)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		report, err := store.GetMetrics(r.Context(), learning.MetricsQuery{
			PredictionType: params.OptionalString(r, "type"),
			Days:           days,
			MustWinLevel:   params.OptionalString(r, "must_win_level"),
		})
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusOK, report, "")
	}
}

// DashboardHandler handles GET /predictions/dashboard
func DashboardHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := daysParam(r)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		dashboard, err := store.GetDashboard(r.Context(), days)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusOK, dashboard, "")
	}
}

// daysParam reads the days window; an explicit 0 is rejected rather than defaulted
func daysParam(r *http.Request) (int, error) {
	days, err := params.Int(r, "days", learning.DefaultMetricsDays)
	if err != nil {
		return 0, err
	}
	if days < 1 || days > learning.MaxMetricsDays {
		return 0, fmt.Errorf("%w: days must be between 1 and %d", learning.ErrValidation, learning.MaxMetricsDays)
	}
	return days, nil
}
