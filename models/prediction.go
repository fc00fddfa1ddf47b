package models

import (
	"time"

	"gorm.io/datatypes"
)

// Prediction types produced by the analysis routines
const (
	PredictionTypeCorners = "corners"
	PredictionTypeCards   = "cards"
	PredictionTypeValue   = "value"
	PredictionTypeGoals   = "goals"
)

// DashboardPredictionTypes are the types broken out on the dashboard, in display order
var DashboardPredictionTypes = []string{
	PredictionTypeCorners,
	PredictionTypeCards,
	PredictionTypeValue,
	PredictionTypeGoals,
}

// Prediction is one heuristic forecast tied to a fixture.
// It is created unverified and mutated exactly once when the real result is known.
type Prediction struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	FixtureID int64  `json:"fixture_id" gorm:"not null;index"`
	LeagueID  *int64 `json:"league_id"`
	Season    *int   `json:"season"`

	// Prediction details
	PredictionType  string   `json:"prediction_type" gorm:"not null;size:50;index"` // corners, cards, value, goals
	PredictionValue *float64 `json:"prediction_value"`                              // e.g. 10.5 corners
	PredictionLine  *string  `json:"prediction_line" gorm:"size:20"`                // Over, Under, Yes, No
	RecommendedBet  *string  `json:"recommended_bet" gorm:"type:text"`
	Confidence      *float64 `json:"confidence"` // 0.0 - 1.0

	// Must Win context
	MustWinHome      *float64 `json:"must_win_home"`
	MustWinAway      *float64 `json:"must_win_away"`
	MustWinHomeLevel *string  `json:"must_win_home_level" gorm:"size:20"`
	MustWinAwayLevel *string  `json:"must_win_away_level" gorm:"size:20"`

	// Market data
	OddsValue     *float64 `json:"odds_value"`
	ExpectedValue *float64 `json:"expected_value"`

	Metadata datatypes.JSONMap `json:"metadata" gorm:"column:prediction_metadata"`

	CreatedAt   time.Time  `json:"created_at" gorm:"not null;index"`
	FixtureDate *time.Time `json:"fixture_date"`

	// Verification, all set together by VerifyPrediction
	Verified     bool       `json:"verified" gorm:"not null;default:false;index"`
	ActualResult *float64   `json:"actual_result"`
	WasCorrect   *bool      `json:"was_correct"`
	ProfitLoss   *float64   `json:"profit_loss"`
	VerifiedAt   *time.Time `json:"verified_at"`
}

// TableName keeps the legacy table name
func (Prediction) TableName() string {
	return "predictions"
}

// PredictionRequest is the request body for saving a prediction
type PredictionRequest struct {
	FixtureID        int64                  `json:"fixture_id" validate:"required"`
	PredictionType   string                 `json:"prediction_type" validate:"required,max=50"`
	PredictionValue  *float64               `json:"prediction_value"`
	PredictionLine   *string                `json:"prediction_line" validate:"omitempty,max=20"`
	RecommendedBet   *string                `json:"recommended_bet"`
	Confidence       *float64               `json:"confidence"`
	MustWinHome      *float64               `json:"must_win_home"`
	MustWinAway      *float64               `json:"must_win_away"`
	MustWinHomeLevel *string                `json:"must_win_home_level" validate:"omitempty,max=20"`
	MustWinAwayLevel *string                `json:"must_win_away_level" validate:"omitempty,max=20"`
	OddsValue        *float64               `json:"odds_value"`
	ExpectedValue    *float64               `json:"expected_value"`
	LeagueID         *int64                 `json:"league_id"`
	Season           *int                   `json:"season"`
	FixtureDate      *FlexibleTime          `json:"fixture_date"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// VerifyRequest is the request body for verifying a single prediction
type VerifyRequest struct {
	ActualResult *float64 `json:"actual_result" validate:"required"`
	Stake        *float64 `json:"stake"`
}

// PredictionListResponse is one page of predictions
type PredictionListResponse struct {
	Predictions []Prediction `json:"predictions"`
	Total       int64        `json:"total"`
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
}
