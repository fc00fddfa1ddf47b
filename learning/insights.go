package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"betlearning/models"

	"gorm.io/datatypes"
)

const (
	DefaultInsightLimit = 20
	MaxInsightLimit     = 100
	dashboardInsights   = 10
)

// InsightFilter narrows ListInsights. A nil Active lists live insights only.
type InsightFilter struct {
	InsightType *string
	Active      *bool
	Limit       int
}

// CreateInsight stores a new active insight. A positive ExpiresInDays sets the
// expiry, zero or nil means it never expires.
func (s *Service) CreateInsight(ctx context.Context, req models.InsightRequest) (*models.Insight, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description must not be empty", ErrValidation)
	}

	insightType := strings.TrimSpace(req.InsightType)
	if insightType == "" {
		insightType = models.DefaultInsightType
	}

	now := s.clock()
	insight := models.Insight{
		InsightType:    insightType,
		Title:          title,
		Description:    description,
		Confidence:     req.Confidence,
		Impact:         req.Impact,
		Priority:       req.Priority,
		PredictionType: req.PredictionType,
		LeagueID:       req.LeagueID,
		MustWinLevel:   req.MustWinLevel,
		SampleSize:     req.SampleSize,
		IsActive:       true,
		IsActionable:   true,
		CreatedAt:      now,
	}
	if req.SupportingData != nil {
		insight.SupportingData = datatypes.JSONMap(req.SupportingData)
	}
	if req.ExpiresInDays != nil && *req.ExpiresInDays > 0 {
		expires := now.Add(time.Duration(*req.ExpiresInDays) * 24 * time.Hour)
		insight.ExpiresAt = &expires
	}

	if err := s.db.WithContext(ctx).Create(&insight).Error; err != nil {
		return nil, persistenceError("create insight", err)
	}

	s.log.Debug().Int64("insight_id", insight.ID).Str("insight_type", insight.InsightType).Msg("insight saved")
	return &insight, nil
}

// ListInsights returns unexpired insights, highest priority first
func (s *Service) ListInsights(ctx context.Context, f InsightFilter) ([]models.Insight, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultInsightLimit
	}
	if f.Limit > MaxInsightLimit {
		f.Limit = MaxInsightLimit
	}
	active := true
	if f.Active != nil {
		active = *f.Active
	}

	query := s.db.WithContext(ctx).
		Where("is_active = ?", active).
		Where("(expires_at IS NULL OR expires_at > ?)", s.clock())
	if t := nonEmpty(f.InsightType); t != nil {
		query = query.Where("insight_type = ?", *t)
	}

	insights := make([]models.Insight, 0)
	err := query.
		Order("priority DESC").
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Find(&insights).Error
	if err != nil {
		return nil, persistenceError("list insights", err)
	}
	return insights, nil
}
