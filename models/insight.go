package models

import (
	"bytes"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gorm.io/datatypes"
)

// Insight impact levels
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// DefaultInsightType is used when a caller does not say what kind of insight it is
const DefaultInsightType = "pattern"

// Insight is a textual observation about system behaviour.
// It is live while active and not past its expiry.
type Insight struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	InsightType string `json:"insight_type" gorm:"not null;size:50;index"` // pattern, recommendation, alert
	Title       string `json:"title" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"type:text;not null"`

	Confidence *float64 `json:"confidence"`
	Impact     *string  `json:"impact" gorm:"size:20"`
	Priority   int      `json:"priority" gorm:"not null;default:0"`

	// Context
	PredictionType *string `json:"prediction_type" gorm:"size:50"`
	LeagueID       *int64  `json:"league_id"`
	MustWinLevel   *string `json:"must_win_level" gorm:"size:20"`

	SupportingData datatypes.JSONMap `json:"supporting_data"`
	SampleSize     *int              `json:"sample_size"`

	IsActive     bool    `json:"is_active" gorm:"not null;default:true"`
	IsActionable bool    `json:"is_actionable" gorm:"not null;default:true"`
	ActionTaken  *string `json:"action_taken" gorm:"type:text"`

	CreatedAt time.Time  `json:"created_at" gorm:"not null;index"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// TableName keeps the legacy table name
func (Insight) TableName() string {
	return "learning_insights"
}

// InsightPublic is the insight as served to dashboards. Title and description
// are kept as stored; the HTML fields are the sanitized renderings.
type InsightPublic struct {
	Insight
	TitleHTML       string `json:"title_html"`
	DescriptionHTML string `json:"description_html"`
}

var (
	markdown     = goldmark.New()
	htmlPolicy   = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// ToPublic converts Insight to InsightPublic
func (i *Insight) ToPublic() InsightPublic {
	return InsightPublic{
		Insight:         *i,
		TitleHTML:       SanitizeTitle(i.Title),
		DescriptionHTML: RenderMarkdown(i.Description),
	}
}

// RenderMarkdown renders markdown to HTML and strips anything unsafe
func RenderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return htmlPolicy.Sanitize(src)
	}
	return htmlPolicy.Sanitize(buf.String())
}

// SanitizeTitle removes all markup from a short title
func SanitizeTitle(s string) string {
	return strictPolicy.Sanitize(s)
}

// InsightRequest is the request body for creating an insight
type InsightRequest struct {
	InsightType    string                 `json:"insight_type" validate:"omitempty,max=50"`
	Title          string                 `json:"title" validate:"required,max=200"`
	Description    string                 `json:"description" validate:"required"`
	Confidence     *float64               `json:"confidence"`
	Impact         *string                `json:"impact" validate:"omitempty,oneof=high medium low"`
	Priority       int                    `json:"priority"`
	PredictionType *string                `json:"prediction_type" validate:"omitempty,max=50"`
	LeagueID       *int64                 `json:"league_id"`
	MustWinLevel   *string                `json:"must_win_level" validate:"omitempty,oneof=CRITICAL HIGH MODERATE LOW"`
	SupportingData map[string]interface{} `json:"supporting_data"`
	SampleSize     *int                   `json:"sample_size"`
	ExpiresInDays  *int                   `json:"expires_in_days" validate:"omitempty,min=0"`
}
