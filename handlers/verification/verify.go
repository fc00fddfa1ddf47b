package verification

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"betlearning/handlers/params"
	"betlearning/learning"
	"betlearning/middleware"
	"betlearning/models"
	"betlearning/provider/apifootball"

	"github.com/rs/zerolog/log"
)

// Verifier is the part of the learning service that reconciles predictions
type Verifier interface {
	VerifyPrediction(ctx context.Context, id int64, actual, stake float64) (*models.Prediction, error)
	VerifyFixture(ctx context.Context, fixtureID int64, results map[string]float64) ([]models.Prediction, error)
}

// ResultsProvider fetches the real outcome of a fixture
type ResultsProvider interface {
	FixtureResults(ctx context.Context, fixtureID int64) (*apifootball.FixtureResult, error)
}

// VerifyPredictionHandler handles POST /predictions/verify/{id}
// Body: {"actual_result": 12.0, "stake": 1.0}
func VerifyPredictionHandler(verifier Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := params.PathInt64(r, "id")
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		var req models.VerifyRequest
		if err := params.DecodeJSON(w, r, &req); err != nil {
			middleware.WriteError(w, r, err)
			return
		}
		if req.ActualResult == nil {
			middleware.WriteError(w, r, fmt.Errorf("%w: actual_result is required", learning.ErrValidation))
			return
		}
		stake := 0.0
		if req.Stake != nil {
			stake = *req.Stake
		}

		prediction, err := verifier.VerifyPrediction(r.Context(), id, *req.ActualResult, stake)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusOK, prediction, "Prediction verified successfully")
	}
}

// VerifyFixtureHandler handles POST /predictions/verify-fixture/{fixture_id}
// Body: {"corners": 12.0, "cards": 5.0, "goals": 3.0}
func VerifyFixtureHandler(verifier Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtureID, err := params.PathInt64(r, "fixture_id")
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		var results map[string]float64
		if err := params.DecodeJSON(w, r, &results); err != nil {
			middleware.WriteError(w, r, err)
			return
		}
		if len(results) == 0 {
			middleware.WriteError(w, r, fmt.Errorf("%w: results data required", learning.ErrValidation))
			return
		}

		verified, err := verifier.VerifyFixture(r.Context(), fixtureID, results)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteSuccess(w, http.StatusOK, verified, fmt.Sprintf("Verified %d predictions", len(verified)))
	}
}

// AutoVerifyFixtureHandler handles POST /predictions/verify-fixture/{fixture_id}/auto
// It pulls the result from the provider and verifies the fixture's pending predictions.
func AutoVerifyFixtureHandler(verifier Verifier, provider ResultsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtureID, err := params.PathInt64(r, "fixture_id")
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		result, err := provider.FixtureResults(r.Context(), fixtureID)
		if err != nil {
			log.Warn().Err(err).Int64("fixture_id", fixtureID).Msg("provider lookup failed")
			status := http.StatusBadGateway
			if errors.Is(err, apifootball.ErrMissingAPIKey) {
				status = http.StatusServiceUnavailable
			}
			middleware.WriteError(w, r, &middleware.HTTPError{
				StatusCode: status,
				Message:    fmt.Sprintf("Failed to fetch fixture results: %v", err),
			})
			return
		}
		if !result.Finished {
			middleware.WriteError(w, r, &middleware.HTTPError{
				StatusCode: http.StatusConflict,
				Message:    fmt.Sprintf("Fixture %d is not finished (status %s)", fixtureID, result.Status),
			})
			return
		}

		verified, err := verifier.VerifyFixture(r.Context(), fixtureID, result.Results)
		if err != nil {
			middleware.WriteError(w, r, err)
			return
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("Verified %d predictions", len(verified)),
			"data":    verified,
			"results": result.Results,
		})
	}
}
