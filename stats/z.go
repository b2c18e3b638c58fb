package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal is the standard normal quantile bounding a two-sided interval of
// the given confidence, in percent (95 gives about 1.96).
func ZVal(confidence float64) float64 {
	std := distuv.Normal{Mu: 0, Sigma: 1}
	return std.Quantile(0.5 + confidence/200)
}

// WinRateInterval returns the win rate and the half width of its normal
// approximation interval at the given confidence (0 to 100). Ties count as
// half a win.
func WinRateInterval(wins float64, n int, confidence float64) (float64, float64) {
	if n == 0 {
		return 0, 0
	}
	p := wins / float64(n)
	return p, ZVal(confidence) * math.Sqrt(p*(1-p)/float64(n))
}
