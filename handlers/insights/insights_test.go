package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"betlearning/learning"
	"betlearning/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	filter   learning.InsightFilter
	created  *models.InsightRequest
	insights []models.Insight
	err      error
}

func (f *fakeStore) CreateInsight(ctx context.Context, req models.InsightRequest) (*models.Insight, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &req
	return &models.Insight{ID: 1, InsightType: models.DefaultInsightType, Title: req.Title, Description: req.Description, IsActive: true}, nil
}

func (f *fakeStore) ListInsights(ctx context.Context, filter learning.InsightFilter) ([]models.Insight, error) {
	f.filter = filter
	return f.insights, f.err
}

func TestListInsightsHandler(t *testing.T) {
	store := &fakeStore{insights: []models.Insight{
		{ID: 2, Title: "Cards spike", Description: "Referee *strict*", Priority: 5, IsActive: true},
	}}
	rec := httptest.NewRecorder()
	ListInsightsHandler(store)(rec, httptest.NewRequest(http.MethodGet, "/predictions/insights?type=alert&active=false&limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alert", *store.filter.InsightType)
	assert.False(t, *store.filter.Active)
	assert.Equal(t, 5, store.filter.Limit)

	var body struct {
		Success bool                   `json:"success"`
		Data    []models.InsightPublic `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Contains(t, body.Data[0].DescriptionHTML, "<em>strict</em>")
}

func TestListInsightsHandlerEmpty(t *testing.T) {
	store := &fakeStore{insights: []models.Insight{}}
	rec := httptest.NewRecorder()
	ListInsightsHandler(store)(rec, httptest.NewRequest(http.MethodGet, "/predictions/insights", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, store.filter.Active)
	assert.Equal(t, learning.DefaultInsightLimit, store.filter.Limit)
	assert.JSONEq(t, `{"success": true, "data": []}`, rec.Body.String())
}

func TestListInsightsHandlerBadLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	ListInsightsHandler(&fakeStore{})(rec, httptest.NewRequest(http.MethodGet, "/predictions/insights?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateInsightHandler(t *testing.T) {
	store := &fakeStore{}
	rec := httptest.NewRecorder()
	body := `{"title": "Home must-win", "description": "CRITICAL home sides hit **70%**", "must_win_level": "CRITICAL", "expires_in_days": 14}`
	CreateInsightHandler(store)(rec, httptest.NewRequest(http.MethodPost, "/predictions/insights", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, 14, *store.created.ExpiresInDays)
	assert.Contains(t, rec.Body.String(), "Insight created successfully")
	assert.Contains(t, rec.Body.String(), "description_html")
}

func TestCreateInsightHandlerValidation(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("%w: field title failed on required", learning.ErrValidation)}
	rec := httptest.NewRecorder()
	CreateInsightHandler(store)(rec, httptest.NewRequest(http.MethodPost, "/predictions/insights", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
