// Command seed fills a database with synthetic predictions, verifies part of
// them and stores a metrics snapshot, so the dashboard has something to show.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"betlearning/config"
	"betlearning/database"
	"betlearning/handlers/math/outcomes"
	"betlearning/learning"
	"betlearning/logger"
	"betlearning/migration"
	_ "betlearning/migration/migrations"
	"betlearning/models"

	"github.com/brianvoe/gofakeit"
	"github.com/rs/zerolog/log"
)

// typical line and spread of the real result per prediction type
var markets = map[string]struct {
	lines  []float64
	mean   float64
	spread float64
}{
	models.PredictionTypeCorners: {lines: []float64{8.5, 9.5, 10.5}, mean: 10, spread: 3},
	models.PredictionTypeCards:   {lines: []float64{3.5, 4.5, 5.5}, mean: 4.5, spread: 2},
	models.PredictionTypeGoals:   {lines: []float64{1.5, 2.5, 3.5}, mean: 2.6, spread: 1.5},
	models.PredictionTypeValue:   {lines: []float64{0.5}, mean: 0.5, spread: 0.5},
}

func main() {
	count := flag.Int("n", 200, "number of predictions to create")
	verifyShare := flag.Float64("verify", 0.7, "share of predictions to verify")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migration.MigrateAll(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	gofakeit.Seed(*seed)
	svc := learning.NewService(db, learning.WithLogger(logger.Component("seed")))
	ctx := context.Background()

	created, verified := 0, 0
	for i := 0; i < *count; i++ {
		p, err := svc.CreatePrediction(ctx, fakePrediction())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create prediction")
		}
		created++

		if gofakeit.Float64Range(0, 1) >= *verifyShare {
			continue
		}
		m := markets[p.PredictionType]
		actual := fakeResult(m.mean, m.spread)
		if _, err := svc.VerifyPrediction(ctx, p.ID, actual, 0); err != nil {
			log.Fatal().Err(err).Int64("prediction_id", p.ID).Msg("failed to verify prediction")
		}
		verified++
	}

	if _, err := svc.SnapshotMetrics(ctx, learning.MetricsQuery{}); err != nil {
		log.Fatal().Err(err).Msg("failed to store snapshot")
	}

	log.Info().Int("created", created).Int("verified", verified).Msg("seed complete")
}

func fakePrediction() models.PredictionRequest {
	predictionType := gofakeit.RandString(models.DashboardPredictionTypes)
	m := markets[predictionType]
	value := m.lines[gofakeit.Number(0, len(m.lines)-1)]

	side := "Over"
	if gofakeit.Bool() {
		side = "Under"
	}
	recommendation := fmt.Sprintf("%s %.1f %s", side, value, predictionType)

	confidence := gofakeit.Float64Range(0.45, 0.95)
	odds := gofakeit.Float64Range(1.4, 3.2)
	home := gofakeit.Float64Range(0, 10)
	away := gofakeit.Float64Range(0, 10)
	league := int64(gofakeit.Number(1, 300))
	season := 2025
	fixtureDate := models.FlexibleTime{Time: gofakeit.DateRange(time.Now().AddDate(0, 0, -20), time.Now()).UTC()}

	return models.PredictionRequest{
		FixtureID:       int64(gofakeit.Number(100000, 999999)),
		LeagueID:        &league,
		Season:          &season,
		PredictionType:  predictionType,
		PredictionValue: &value,
		PredictionLine:  outcomes.LineFromRecommendation(recommendation),
		RecommendedBet:  &recommendation,
		Confidence:      &confidence,
		MustWinHome:     &home,
		MustWinAway:     &away,
		OddsValue:       &odds,
		FixtureDate:     &fixtureDate,
		Metadata: map[string]interface{}{
			"source": "seed",
			"note":   gofakeit.Sentence(6),
		},
	}
}

// fakeResult draws a non-negative whole-number result around mean
func fakeResult(mean, spread float64) float64 {
	v := mean + gofakeit.Float64Range(-spread, spread)
	if v < 0 {
		v = 0
	}
	return float64(int(v + 0.5))
}
