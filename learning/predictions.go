package learning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"betlearning/handlers/math/outcomes"
	"betlearning/handlers/math/payouts"
	"betlearning/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// PredictionFilter narrows ListPredictions. Nil fields are not filtered on.
type PredictionFilter struct {
	FixtureID      *int64
	PredictionType *string
	Verified       *bool
	Limit          int
	Offset         int
}

// CreatePrediction stores a new unverified prediction.
// Values such as confidence or odds are stored as given.
func (s *Service) CreatePrediction(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error) {
	req.PredictionType = strings.TrimSpace(req.PredictionType)
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	p := models.Prediction{
		FixtureID:        req.FixtureID,
		LeagueID:         req.LeagueID,
		Season:           req.Season,
		PredictionType:   req.PredictionType,
		PredictionValue:  req.PredictionValue,
		PredictionLine:   req.PredictionLine,
		RecommendedBet:   req.RecommendedBet,
		Confidence:       req.Confidence,
		MustWinHome:      req.MustWinHome,
		MustWinAway:      req.MustWinAway,
		MustWinHomeLevel: req.MustWinHomeLevel,
		MustWinAwayLevel: req.MustWinAwayLevel,
		OddsValue:        req.OddsValue,
		ExpectedValue:    req.ExpectedValue,
		CreatedAt:        s.clock(),
		FixtureDate:      req.FixtureDate.Ptr(),
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}

	// Levels are derived from the scores when the caller only sent the scores
	if p.MustWinHomeLevel == nil && p.MustWinHome != nil {
		level := models.MustWinLevelFromScore(*p.MustWinHome)
		p.MustWinHomeLevel = &level
	}
	if p.MustWinAwayLevel == nil && p.MustWinAway != nil {
		level := models.MustWinLevelFromScore(*p.MustWinAway)
		p.MustWinAwayLevel = &level
	}
	if p.ExpectedValue == nil && p.Confidence != nil && p.OddsValue != nil {
		ev := payouts.ExpectedValue(*p.Confidence, *p.OddsValue)
		p.ExpectedValue = &ev
	}

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, persistenceError("create prediction", err)
	}

	s.log.Debug().
		Int64("prediction_id", p.ID).
		Int64("fixture_id", p.FixtureID).
		Str("prediction_type", p.PredictionType).
		Msg("prediction saved")
	return &p, nil
}

// VerifyPrediction records the real outcome of a prediction. A prediction is
// verified exactly once; the conditional update makes a concurrent second
// verifier see ErrAlreadyVerified. A stake <= 0 means one unit.
func (s *Service) VerifyPrediction(ctx context.Context, id int64, actual, stake float64) (*models.Prediction, error) {
	if stake <= 0 {
		stake = payouts.DefaultStake
	}

	var verified models.Prediction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Prediction
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("prediction %d: %w", id, ErrNotFound)
			}
			return persistenceError("load prediction", err)
		}
		if p.Verified {
			return fmt.Errorf("prediction %d: %w", id, ErrAlreadyVerified)
		}

		wasCorrect := outcomes.Correct(p.PredictionValue, p.PredictionLine, actual)
		profitLoss := payouts.ProfitLoss(wasCorrect, stake, p.OddsValue)
		now := s.clock()

		res := tx.Model(&models.Prediction{}).
			Where("id = ? AND verified = ?", id, false).
			Updates(map[string]interface{}{
				"verified":      true,
				"actual_result": actual,
				"was_correct":   wasCorrect,
				"profit_loss":   profitLoss,
				"verified_at":   now,
			})
		if res.Error != nil {
			return persistenceError("verify prediction", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("prediction %d: %w", id, ErrAlreadyVerified)
		}

		p.Verified = true
		p.ActualResult = &actual
		p.WasCorrect = &wasCorrect
		p.ProfitLoss = &profitLoss
		p.VerifiedAt = &now
		verified = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("prediction_id", id).
		Bool("was_correct", *verified.WasCorrect).
		Float64("profit_loss", *verified.ProfitLoss).
		Msg("prediction verified")
	return &verified, nil
}

// VerifyFixture verifies every pending prediction of a fixture whose type has
// a result. Types without a result are left pending, and predictions verified
// concurrently by someone else are skipped.
func (s *Service) VerifyFixture(ctx context.Context, fixtureID int64, results map[string]float64) ([]models.Prediction, error) {
	var pending []models.Prediction
	err := s.db.WithContext(ctx).
		Where("fixture_id = ? AND verified = ?", fixtureID, false).
		Order("id ASC").
		Find(&pending).Error
	if err != nil {
		return nil, persistenceError("load fixture predictions", err)
	}

	verified := make([]models.Prediction, 0, len(pending))
	for _, p := range pending {
		actual, ok := results[p.PredictionType]
		if !ok {
			continue
		}
		v, err := s.VerifyPrediction(ctx, p.ID, actual, payouts.DefaultStake)
		if errors.Is(err, ErrAlreadyVerified) || errors.Is(err, ErrNotFound) {
			s.log.Debug().Int64("prediction_id", p.ID).Err(err).Msg("skipping prediction")
			continue
		}
		if err != nil {
			return verified, err
		}
		verified = append(verified, *v)
	}
	return verified, nil
}

func (s *Service) GetPrediction(ctx context.Context, id int64) (*models.Prediction, error) {
	var p models.Prediction
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("prediction %d: %w", id, ErrNotFound)
		}
		return nil, persistenceError("get prediction", err)
	}
	return &p, nil
}

// ListPredictions returns one page of predictions, newest first, with the
// total number of rows matching the filter.
func (s *Service) ListPredictions(ctx context.Context, f PredictionFilter) (*models.PredictionListResponse, error) {
	if f.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrValidation)
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}

	query := s.db.WithContext(ctx).Model(&models.Prediction{})
	if f.FixtureID != nil {
		query = query.Where("fixture_id = ?", *f.FixtureID)
	}
	if f.PredictionType != nil {
		query = query.Where("prediction_type = ?", *f.PredictionType)
	}
	if f.Verified != nil {
		query = query.Where("verified = ?", *f.Verified)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, persistenceError("count predictions", err)
	}

	predictions := make([]models.Prediction, 0)
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&predictions).Error
	if err != nil {
		return nil, persistenceError("list predictions", err)
	}

	return &models.PredictionListResponse{
		Predictions: predictions,
		Total:       total,
		Limit:       f.Limit,
		Offset:      f.Offset,
	}, nil
}
