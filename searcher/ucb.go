package searcher

import "math"

func ucb1(rewards float64, visits int, c, logN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + c*math.Sqrt(logN/float64(visits))
}
