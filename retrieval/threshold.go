package retrieval

import "math"

// effectiveThreshold implements the adaptive threshold formula of
// spec.md §4.4: starting from the caller's base threshold b, tighten or
// loosen against the observed semantic score distribution, then clamp
// to [tMin, tHigh].
func effectiveThreshold(base float64, scores []float64, tMin, tMed, tHigh float64) float64 {
	t := base
	if len(scores) >= 2 {
		lo, hi := scores[0], scores[0]
		sum := 0.0
		for _, s := range scores {
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
			sum += s
		}
		mean := sum / float64(len(scores))
		variance := 0.0
		for _, s := range scores {
			d := s - mean
			variance += d * d
		}
		variance /= float64(len(scores))
		sigma := math.Sqrt(variance)
		valueRange := hi - lo

		switch {
		case valueRange > 0.4 && hi > tHigh:
			t = math.Max(t, mean+0.5*sigma)
		case valueRange < 0.2:
			t = math.Min(t, mean-0.5*sigma)
		}
		if hi > tHigh {
			t = math.Max(t, tMed)
		}
		if hi < tMin {
			t = math.Min(t, tMin)
		}
	}

	if t < tMin {
		t = tMin
	}
	if t > tHigh {
		t = tHigh
	}
	return t
}
