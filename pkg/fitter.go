package gainmap

import (
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

type FitSettings struct {
	MinSamples int
	TrimSigma  float64
	PeakSigma  float64
	MaxMean    float64
}

func DefaultFitSettings() FitSettings {
	return FitSettings{
		MinSamples: 30,
		TrimSigma:  2,
		PeakSigma:  2,
		MaxMean:    2000,
	}
}

// The map format has always used ndf = 1 for every fitted pixel; the
// chi2/ndf cuts applied to the maps rely on it.
const LEGACY_NDF = 1

const (
	maxFitIterations = 500
	fitTolerance     = 1e-9
)

type PixelFitRecord struct {
	X             int
	Y             int
	Mean          float64
	Width         float64
	RawOccupancy  int
	PeakOccupancy int
	ChiSquare     float64
	Ndf           int
}

// Fitted is false for pixels that carry the placeholder values.
func (r PixelFitRecord) Fitted() bool {
	return r.Ndf > 0
}

func sentinelRecord(x int, y int, nSamples int) PixelFitRecord {
	return PixelFitRecord{
		X:            x,
		Y:            y,
		Mean:         -1,
		Width:        -1,
		RawOccupancy: nSamples,
	}
}

// FitPixel estimates the charge peak of one pixel. The samples are trimmed
// to TrimSigma standard deviations around their mean and a Gaussian is
// fitted to what is left, taking the trim window into account. Pixels with
// too few samples or an unphysical result get the placeholder record.
func FitPixel(x int, y int, samples []float64, settings FitSettings) PixelFitRecord {
	nSamples := len(samples)
	if nSamples <= settings.MinSamples {
		return sentinelRecord(x, y, nSamples)
	}

	// Sorting makes the sums independent of the order samples arrived in
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	low := mean - settings.TrimSigma*std
	high := mean + settings.TrimSigma*std
	trimmed := samplesInWindow(sorted, low, high)

	mu, width, ok := fitTruncatedGaussian(trimmed, low, high)
	if !ok || !saneFit(mu, width, settings) {
		return sentinelRecord(x, y, nSamples)
	}

	return PixelFitRecord{
		X:             x,
		Y:             y,
		Mean:          mu,
		Width:         width,
		RawOccupancy:  nSamples,
		PeakOccupancy: countInside(trimmed, mu-settings.PeakSigma*width, mu+settings.PeakSigma*width),
		ChiSquare:     0,
		Ndf:           LEGACY_NDF,
	}
}

// samplesInWindow returns the sub-slice of sorted samples in [low, high].
func samplesInWindow(sorted []float64, low float64, high float64) []float64 {
	start, _ := slices.BinarySearch(sorted, low)
	end := start
	for end < len(sorted) && sorted[end] <= high {
		end++
	}
	return sorted[start:end]
}

// countInside counts samples strictly between low and high.
func countInside(samples []float64, low float64, high float64) int {
	n := 0
	for _, v := range samples {
		if v > low && v < high {
			n++
		}
	}
	return n
}

func saneFit(mean float64, width float64, settings FitSettings) bool {
	if math.IsNaN(mean) || math.IsNaN(width) || math.IsInf(mean, 0) || math.IsInf(width, 0) {
		return false
	}
	return mean >= 0 && mean <= settings.MaxMean && width > 0
}

// fitTruncatedGaussian finds the maximum likelihood Gaussian for samples
// that were only kept inside [low, high]. For fixed bounds this is the
// Gaussian whose truncated mean and variance equal the sample ones, which
// is solved by fixed-point iteration starting from the sample moments.
func fitTruncatedGaussian(samples []float64, low float64, high float64) (float64, float64, bool) {
	if len(samples) < 2 || !(high > low) {
		return 0, 0, false
	}
	m, s := stat.PopMeanStdDev(samples, nil)
	if !(s > 0) {
		return m, s, false
	}

	mu, sigma := m, s
	for i := 0; i < maxFitIterations; i++ {
		alpha := (low - mu) / sigma
		beta := (high - mu) / sigma
		z := distuv.UnitNormal.CDF(beta) - distuv.UnitNormal.CDF(alpha)
		if !(z > 0) {
			return mu, sigma, false
		}
		pdfAlpha := distuv.UnitNormal.Prob(alpha)
		pdfBeta := distuv.UnitNormal.Prob(beta)

		// Truncated mean is mu + sigma*shift, truncated variance is sigma^2*ratio
		shift := (pdfAlpha - pdfBeta) / z
		ratio := 1 + (alpha*pdfAlpha-beta*pdfBeta)/z - shift*shift
		if !(ratio > 0) {
			return mu, sigma, false
		}

		nextSigma := s / math.Sqrt(ratio)
		nextMu := m - nextSigma*shift
		converged := math.Abs(nextMu-mu) <= fitTolerance*nextSigma &&
			math.Abs(nextSigma-sigma) <= fitTolerance*nextSigma
		mu, sigma = nextMu, nextSigma
		if converged {
			return mu, sigma, true
		}
	}
	return mu, sigma, false
}
