// Package analysis provides Monte Carlo time-series diagnostics for the
// observable histories: power spectra for driven runs and autocorrelation
// estimates for judging equilibration.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the positive-frequency half of the
// series' Fourier transform. The input is zero-padded to the next power of
// two; the mean is removed first so the DC bin does not swamp the plot.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	n := 1
	for n < len(series) {
		n *= 2
	}

	mu := seriesMean(series)
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mu
	}

	coeffs := fft.FFTReal(padded)

	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the frequency (in cycles per time unit) of the
// largest non-DC spectrum bin, given the duration the series spans.
func DominantFrequency(spectrum []float64, duration float64) float64 {
	if len(spectrum) < 2 || duration <= 0 {
		return 0
	}

	maxIdx := 1
	for i := 2; i < len(spectrum); i++ {
		if spectrum[i] > spectrum[maxIdx] {
			maxIdx = i
		}
	}

	return float64(maxIdx) / duration
}

// Autocorrelation returns the normalized autocorrelation of the series for
// lags 0..maxLag. Lag 0 is always 1 for a non-constant series; a constant
// series returns all zeros past lag 0.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mu := seriesMean(series)
	var c0 float64
	for _, v := range series {
		d := v - mu
		c0 += d * d
	}

	acf := make([]float64, maxLag+1)
	if c0 == 0 {
		acf[0] = 1
		return acf
	}

	for lag := 0; lag <= maxLag; lag++ {
		var c float64
		for i := 0; i+lag < n; i++ {
			c += (series[i] - mu) * (series[i+lag] - mu)
		}
		acf[lag] = c / c0
	}
	return acf
}

// IntegratedAutocorrTime estimates the integrated autocorrelation time
// tau = 1/2 + sum of the ACF, truncated at the first non-positive lag (the
// usual automatic windowing rule). A fully decorrelated series yields 0.5.
func IntegratedAutocorrTime(series []float64) float64 {
	maxLag := len(series) / 2
	acf := Autocorrelation(series, maxLag)
	if len(acf) == 0 {
		return 0
	}

	tau := 0.5
	for lag := 1; lag < len(acf); lag++ {
		if acf[lag] <= 0 {
			break
		}
		tau += acf[lag]
	}
	return tau
}

// EffectiveSampleSize converts a series length and its autocorrelation time
// into the number of statistically independent samples.
func EffectiveSampleSize(series []float64) float64 {
	tau := IntegratedAutocorrTime(series)
	if tau <= 0 {
		return float64(len(series))
	}
	return math.Floor(float64(len(series)) / (2 * tau))
}

func seriesMean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
