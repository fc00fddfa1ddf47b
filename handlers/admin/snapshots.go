package adminhandlers

import (
	"context"
	"net/http"

	"betlearning/handlers/params"
	"betlearning/learning"
	"betlearning/middleware"
	"betlearning/models"
)

// SnapshotStore persists and lists metric snapshots
type SnapshotStore interface {
	SnapshotMetrics(ctx context.Context, q learning.MetricsQuery) (*models.PerformanceSnapshot, error)
	ListSnapshots(ctx context.Context, predictionType *string, limit int) ([]models.PerformanceSnapshot, error)
}

// SnapshotRequest is the request body for taking a snapshot
type SnapshotRequest struct {
	PredictionType *string `json:"prediction_type"`
	Days           int     `json:"days"`
	MustWinLevel   *string `json:"must_win_level"`
}

// CreateSnapshotHandler handles POST /admin/snapshots
// An empty body snapshots all types over the default window.
func CreateSnapshotHandler(store SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SnapshotRequest
		if r.ContentLength != 0 {
			if err := params.DecodeJSON(w, r, &req); err != nil {
				middleware.WriteError(w, r, err)
				return
			}
		}

		snapshot, err := store.SnapshotMetrics(r.Context(), learning.MetricsQuery{
			PredictionType: req.PredictionType,
			Days:           req.Days,
			MustWinLevel:   req.MustWinLevel,
		})
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusCreated, snapshot, "Metrics snapshot stored")
	}
}

// ListSnapshotsHandler handles GET /admin/snapshots
// Query: type (present but empty selects the all-types snapshots), limit
func ListSnapshotsHandler(store SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := params.Int(r, "limit", learning.DefaultSnapshotLimit)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		var predictionType *string
		if values, ok := r.URL.Query()["type"]; ok && len(values) > 0 {
			t := values[0]
			predictionType = &t
		}

		snapshots, err := store.ListSnapshots(r.Context(), predictionType, limit)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusOK, snapshots, "")
	}
}
