package models

// Must Win levels, from highest pressure to lowest
const (
	MustWinCritical = "CRITICAL"
	MustWinHigh     = "HIGH"
	MustWinModerate = "MODERATE"
	MustWinLow      = "LOW"
)

// MustWinLevels lists the levels in the order metrics report them
var MustWinLevels = []string{MustWinCritical, MustWinHigh, MustWinModerate, MustWinLow}

// MustWinLevelFromScore converts a 0-10 Must Win score into its categorical level
func MustWinLevelFromScore(score float64) string {
	switch {
	case score >= 8.0:
		return MustWinCritical
	case score >= 6.5:
		return MustWinHigh
	case score >= 5.0:
		return MustWinModerate
	default:
		return MustWinLow
	}
}
