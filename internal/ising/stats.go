package ising

// mean returns the arithmetic mean of xs, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance returns the population variance of xs (denominator n, not n-1),
// matching the fluctuation estimators.
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mu := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - mu
		sum += d * d
	}
	return sum / float64(len(xs))
}
