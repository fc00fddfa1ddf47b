// Package payouts computes the money side of a settled forecast: profit or
// loss on a stake at decimal odds, and the expected value of a wager.
package payouts

// DefaultStake is the unit stake assumed when a caller does not give one
const DefaultStake = 1.0

// ProfitLoss returns the result of staking `stake` at decimal `odds`.
// Without odds nothing was wagered and the result is 0.
func ProfitLoss(wasCorrect bool, stake float64, odds *float64) float64 {
	if odds == nil {
		return 0
	}
	if wasCorrect {
		return stake * (*odds - 1)
	}
	return -stake
}

// ExpectedValue returns (probability * odds) - 1.
// Out of range inputs yield 0 rather than an error; the figure is advisory.
func ExpectedValue(probability, odds float64) float64 {
	if probability <= 0 || probability > 1 {
		return 0
	}
	if odds < 1.0 {
		return 0
	}
	return probability*odds - 1.0
}
