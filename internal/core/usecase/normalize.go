package usecase

// minMaxNormalize maps raw scores into [0,1]. When every score is equal
// (including the empty list) the whole family normalizes to 0.0 so a
// flat score family contributes nothing to fusion.
func minMaxNormalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore <= minScore {
		return out
	}

	spread := maxScore - minScore
	for i, s := range scores {
		out[i] = (s - minScore) / spread
	}
	return out
}
