package learning

import (
	"context"
	"strings"
	"testing"
	"time"

	"betlearning/database"
	"betlearning/migration"
	_ "betlearning/migration/migrations"
	"betlearning/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *gorm.DB, *testClock) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory(name)
	require.NoError(t, err)
	require.NoError(t, migration.MigrateAll(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	clock := &testClock{now: testNow}
	return NewService(db, WithClock(clock.Now)), db, clock
}

func ptr[T any](v T) *T { return &v }

func cornersRequest(fixtureID int64) models.PredictionRequest {
	return models.PredictionRequest{
		FixtureID:       fixtureID,
		PredictionType:  models.PredictionTypeCorners,
		PredictionValue: ptr(10.5),
		PredictionLine:  ptr("Over"),
		Confidence:      ptr(0.72),
		OddsValue:       ptr(1.85),
	}
}

func mustCreate(t *testing.T, s *Service, req models.PredictionRequest) *models.Prediction {
	t.Helper()
	p, err := s.CreatePrediction(context.Background(), req)
	require.NoError(t, err)
	return p
}
