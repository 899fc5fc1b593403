package domain

import "math"

// RatingSummary is the local rating aggregate for one business.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Summarize computes the average rating and count over approved reviews.
// No approved reviews means a zero aggregate, not NaN.
func Summarize(reviews []Review) RatingSummary {
	var sum, n int
	for _, r := range reviews {
		if !r.Approved {
			continue
		}
		sum += r.Rating
		n++
	}
	if n == 0 {
		return RatingSummary{}
	}
	return RatingSummary{Average: float64(sum) / float64(n), Count: n}
}

// FillPercent converts a 1..5 average into the star widget's fill
// percentage. The fill fraction is snapped to the nearest 0.05 before
// scaling, and the result is rounded to two decimals. A zero average
// fills nothing.
func FillPercent(avg float64) float64 {
	if avg <= 0 {
		return 0
	}
	frac := avg / 5
	frac = math.Round(frac/0.05) * 0.05
	return math.Round(frac*100*100) / 100
}
