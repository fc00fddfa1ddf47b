package predictions

import (
	"context"
	"net/http"

	"betlearning/handlers/params"
	"betlearning/learning"
	"betlearning/middleware"
	"betlearning/models"
)

// Store is the part of the learning service the prediction handlers use
type Store interface {
	CreatePrediction(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error)
	GetPrediction(ctx context.Context, id int64) (*models.Prediction, error)
	ListPredictions(ctx context.Context, f learning.PredictionFilter) (*models.PredictionListResponse, error)
	GetMetrics(ctx context.Context, q learning.MetricsQuery) (*models.MetricsReport, error)
	GetDashboard(ctx context.Context, days int) (*models.Dashboard, error)
}

// SavePredictionHandler handles POST /predictions/save
func SavePredictionHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PredictionRequest
		if err := params.DecodeJSON(w, r, &req); err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		prediction, err := store.CreatePrediction(r.Context(), req)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusCreated, prediction, "Prediction saved successfully")
	}
}

// GetPredictionHandler handles GET /predictions/{id}
func GetPredictionHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := params.PathInt64(r, "id")
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		prediction, err := store.GetPrediction(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusOK, prediction, "")
	}
}

// ListPredictionsHandler handles GET /predictions/list
// Query: fixture_id, type, verified, limit (default 50, max 200), offset
func ListPredictionsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtureID, err := params.OptionalInt64(r, "fixture_id")
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}
		limit, err := params.Int(r, "limit", learning.DefaultListLimit)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}
		offset, err := params.Int(r, "offset", 0)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		page, err := store.ListPredictions(r.Context(), learning.PredictionFilter{
			FixtureID:      fixtureID,
			PredictionType: params.OptionalString(r, "type"),
			Verified:       params.OptionalBool(r, "verified"),
			Limit:          limit,
			Offset:         offset,
		})
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusOK, page, "")
	}
}
