package insights

import (
	"context"
	"net/http"

	"betlearning/handlers/params"
	"betlearning/learning"
	"betlearning/middleware"
	"betlearning/models"
)

// Store is the part of the learning service the insight handlers use
type Store interface {
	CreateInsight(ctx context.Context, req models.InsightRequest) (*models.Insight, error)
	ListInsights(ctx context.Context, f learning.InsightFilter) ([]models.Insight, error)
}

// ListInsightsHandler handles GET /predictions/insights
// Query: type, active, limit (default 20, max 100). Expired insights are never listed.
func ListInsightsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := params.Int(r, "limit", learning.DefaultInsightLimit)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		insights, err := store.ListInsights(r.Context(), learning.InsightFilter{
			InsightType: params.OptionalString(r, "type"),
			Active:      params.OptionalBool(r, "active"),
			Limit:       limit,
		})
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		public := make([]models.InsightPublic, len(insights))
		for i := range insights {
			public[i] = insights[i].ToPublic()
		}
		middleware.WriteSuccess(w, http.StatusOK, public, "")
	}
}

// CreateInsightHandler handles POST /predictions/insights
func CreateInsightHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.InsightRequest
		if err := params.DecodeJSON(w, r, &req); err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		insight, err := store.CreateInsight(r.Context(), req)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusCreated, insight.ToPublic(), "Insight created successfully")
	}
}
