package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fixture statuses meaning the match is over
var finishedStatuses = map[string]bool{
	"FT":  true,
	"AET": true,
	"PEN": true,
}

// Statistic names as reported by /fixtures/statistics
const (
	statCorners     = "Corner Kicks"
	statYellowCards = "Yellow Cards"
	statRedCards    = "Red Cards"
)

// FixtureResult is the outcome of a fixture keyed by prediction type
type FixtureResult struct {
	FixtureID int64              `json:"fixture_id"`
	Finished  bool               `json:"finished"`
	Status    string             `json:"status"`
	Results   map[string]float64 `json:"results"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64 `json:"id"`
		Status struct {
			Long  string `json:"long"`
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type teamStatistics struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Statistics []struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	} `json:"statistics"`
}

// FixtureResults fetches the status, goals and match statistics of a fixture.
// Results only holds the totals the provider actually reported.
func (c *Client) FixtureResults(ctx context.Context, fixtureID int64) (*FixtureResult, error) {
	var fixtures []fixtureItem
	if err := c.get(ctx, "/fixtures", fixtureParams("id", fixtureID), &fixtures); err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, &APIError{Endpoint: "/fixtures", Details: fmt.Sprintf("fixture %d not found", fixtureID)}
	}

	item := fixtures[0]
	status := strings.ToUpper(item.Fixture.Status.Short)
	result := &FixtureResult{
		FixtureID: fixtureID,
		Finished:  finishedStatuses[status],
		Status:    status,
		Results:   make(map[string]float64),
	}
	if !result.Finished {
		return result, nil
	}

	if item.Goals.Home != nil && item.Goals.Away != nil {
		result.Results["goals"] = float64(*item.Goals.Home + *item.Goals.Away)
	}

	var stats []teamStatistics
	if err := c.get(ctx, "/fixtures/statistics", fixtureParams("fixture", fixtureID), &stats); err != nil {
		return nil, err
	}

	var corners, cards float64
	var hasCorners, hasCards bool
	for _, team := range stats {
		for _, stat := range team.Statistics {
			if stat.Type != statCorners && stat.Type != statYellowCards && stat.Type != statRedCards {
				continue
			}
			// A listed stat with a null value means none happened
			v, ok := statValue(stat.Value)
			if !ok && !isNull(stat.Value) {
				continue
			}
			if stat.Type == statCorners {
				corners += v
				hasCorners = true
			} else {
				cards += v
				hasCards = true
			}
		}
	}
	if hasCorners {
		result.Results["corners"] = corners
	}
	if hasCards {
		result.Results["cards"] = cards
	}

	c.log.Debug().
		Int64("fixture_id", fixtureID).
		Str("status", status).
		Interface("results", result.Results).
		Msg("fixture results fetched")
	return result, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// statValue reads a statistic that may be a number, a numeric string or null
func statValue(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
