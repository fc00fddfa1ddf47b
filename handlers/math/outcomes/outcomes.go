// Package outcomes decides whether a numeric forecast was right once the real
// result of the fixture is known.
//
// A forecast is a threshold plus an optional directional line:
//   - Over / Mais / Acima: the result must be strictly above the threshold
//   - Under / Menos / Abaixo: the result must be strictly below the threshold
//   - Yes / Sim: the result must reach the threshold
//   - No / Não / Nao: the result must stay below the threshold
//
// Without a recognised line the forecast is a point estimate and counts as
// correct within a 10% band around the threshold.
package outcomes

import (
	"math"
	"strings"
)

// Tolerance is the relative band used for point estimates
const Tolerance = 0.1

// Canonical line names
const (
	LineOver  = "Over"
	LineUnder = "Under"
	LineYes   = "Yes"
	LineNo    = "No"
)

var lineAliases = map[string]string{
	"OVER":   LineOver,
	"MAIS":   LineOver,
	"ACIMA":  LineOver,
	"UNDER":  LineUnder,
	"MENOS":  LineUnder,
	"ABAIXO": LineUnder,
	"YES":    LineYes,
	"SIM":    LineYes,
	"NO":     LineNo,
	"NAO":    LineNo,
	"NÃO":    LineNo,
}

// NormalizeLine maps a line in any supported language to its canonical name.
// ok is false for unrecognised lines.
func NormalizeLine(line string) (canonical string, ok bool) {
	canonical, ok = lineAliases[strings.ToUpper(strings.TrimSpace(line))]
	return canonical, ok
}

// Correct reports whether the forecast held given the actual result.
// A forecast without a threshold is never correct.
func Correct(value *float64, line *string, actual float64) bool {
	if value == nil {
		return false
	}
	threshold := *value

	if line != nil {
		if canonical, ok := NormalizeLine(*line); ok {
			switch canonical {
			case LineOver:
				return actual > threshold
			case LineUnder, LineNo:
				return actual < threshold
			case LineYes:
				return actual >= threshold
			}
		}
	}

	// Sign sensitive: a zero or negative threshold collapses the band
	margin := threshold * Tolerance
	return math.Abs(actual-threshold) <= margin
}

// LineFromRecommendation extracts the directional line from a free text
// recommendation such as "Over 10.5 escanteios". Returns nil when none is found.
func LineFromRecommendation(recommendation string) *string {
	upper := strings.ToUpper(recommendation)

	var line string
	switch {
	case containsAny(upper, "OVER", "ACIMA", "MAIS"):
		line = LineOver
	case containsAny(upper, "UNDER", "ABAIXO", "MENOS"):
		line = LineUnder
	case containsAny(upper, "SIM", "YES", "AMBOS", "BOTH"):
		line = LineYes
	case containsAny(upper, "NAO", "NÃO", "NO"):
		line = LineNo
	default:
		return nil
	}
	return &line
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
