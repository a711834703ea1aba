package extraction

// scoreConfidence sums a strategy's base weight with its bounded boosts and
// clamps the result to [0,1].
func scoreConfidence(base float64, boosts ...float64) float64 {
	score := base
	for _, boost := range boosts {
		score += boost
	}
	if score > 1.0 {
		return 1.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}
