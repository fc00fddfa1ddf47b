package learning

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"betlearning/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotMetrics(t *testing.T) {
	s, _, clock := newTestService(t)

	req := cornersRequest(1)
	req.MustWinHomeLevel = ptr(models.MustWinCritical)
	p := mustCreate(t, s, req)
	_, err := s.VerifyPrediction(context.Background(), p.ID, 12, 1)
	require.NoError(t, err)
	mustCreate(t, s, cornersRequest(2))

	snapshot, err := s.SnapshotMetrics(context.Background(), MetricsQuery{PredictionType: ptr("corners"), Days: 7})
	require.NoError(t, err)

	assert.NotZero(t, snapshot.ID)
	assert.Equal(t, "corners", snapshot.PredictionType)
	assert.Equal(t, testNow.Add(-7*24*time.Hour), snapshot.PeriodStart)
	assert.Equal(t, testNow, snapshot.PeriodEnd)
	assert.Equal(t, int64(2), snapshot.TotalPredictions)
	assert.Equal(t, int64(1), snapshot.TotalVerified)
	assert.Equal(t, int64(1), snapshot.TotalPending)
	assert.Equal(t, int64(1), snapshot.TotalCorrect)
	assert.InDelta(t, 0.85, snapshot.ROI, 1e-9)

	var byMustWin map[string]models.MustWinMetrics
	require.NoError(t, json.Unmarshal(snapshot.MetricsByMustWin, &byMustWin))
	assert.Equal(t, int64(1), byMustWin[models.MustWinCritical].Count)

	var calibration map[string]models.CalibrationBin
	require.NoError(t, json.Unmarshal(snapshot.ConfidenceCalibration, &calibration))
	assert.Equal(t, int64(1), calibration[models.Bucket70To80].Count)

	clock.Advance(time.Hour)
	overall, err := s.SnapshotMetrics(context.Background(), MetricsQuery{})
	require.NoError(t, err)
	assert.Empty(t, overall.PredictionType)

	all, err := s.ListSnapshots(context.Background(), nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, overall.ID, all[0].ID)

	onlyCorners, err := s.ListSnapshots(context.Background(), ptr("corners"), 10)
	require.NoError(t, err)
	require.Len(t, onlyCorners, 1)
	assert.Equal(t, snapshot.ID, onlyCorners[0].ID)

	allTypes, err := s.ListSnapshots(context.Background(), ptr(""), 10)
	require.NoError(t, err)
	require.Len(t, allTypes, 1)
	assert.Equal(t, overall.ID, allTypes[0].ID)
}

func TestSnapshotMetricsValidation(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.SnapshotMetrics(context.Background(), MetricsQuery{Days: -5})
	assert.ErrorIs(t, err, ErrValidation)
}
