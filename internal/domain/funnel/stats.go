package funnel

import "math"

// rawRate returns k/n, or 0 when n is 0.
func rawRate(k, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(k) / float64(n)
}

// smoothedRate applies additive smoothing: (k+α)/(n+2α). With α > 0 the
// result is strictly inside (0, 1); with α = 0 and n = 0 it is 0.
func smoothedRate(k, n int, alpha float64) float64 {
	denom := float64(n) + 2*alpha
	if denom == 0 {
		return 0
	}
	return (float64(k) + alpha) / denom
}

// wilsonInterval returns the Wilson score interval for k successes in n
// trials at the given z, clamped to [0, 1]. An empty sample yields (0, 0).
func wilsonInterval(k, n int, z float64) (lower, upper float64) {
	if n <= 0 {
		return 0, 0
	}

	nf := float64(n)
	p := float64(k) / nf
	z2 := z * z

	centre := p + z2/(2*nf)
	half := z * math.Sqrt((p*(1-p)+z2/(4*nf))/nf)
	denom := 1 + z2/nf

	lower = clamp01((centre - half) / denom)
	upper = clamp01((centre + half) / denom)

	// rounding at k = 0 or k = n can leave p a hair outside the bounds
	lower = math.Min(lower, p)
	upper = math.Max(upper, p)
	return lower, upper
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// percent converts a fraction to a percentage.
func percent(fraction float64) float64 {
	return fraction * 100
}
