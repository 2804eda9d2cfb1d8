package metrics

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/sigvalid/internal/errors"
)

// ChannelMetrics holds the agreement statistics of one index-aligned channel
// pair. Values are never NaN or Inf.
type ChannelMetrics struct {
	// Channel is the index of the compared channel.
	Channel int
	// Correlation is the Pearson correlation coefficient, or 0 when either
	// channel has zero variance.
	Correlation float64
	// RSquared is Correlation squared. It is not a regression fit.
	RSquared float64
	// RMSE is the root-mean-square difference.
	RMSE float64
	// MAE is the mean absolute difference.
	MAE float64
	// NRMSEPercent is 100 * RMSE / (max(reference) - min(reference)), or 0
	// when the reference range is 0.
	NRMSEPercent float64
}

// Compute compares one reference channel against one candidate channel.
//
// It returns a ShapeMismatchError when the lengths differ and a
// ComputationError when the channels are empty or hold non-finite samples.
func Compute(index int, reference, candidate []float64) (ChannelMetrics, error) {
	if len(reference) != len(candidate) {
		return ChannelMetrics{}, apperrors.ShapeMismatchError{
			Channel:      index,
			ReferenceLen: len(reference),
			CandidateLen: len(candidate),
		}
	}
	n := len(reference)
	if n == 0 {
		return ChannelMetrics{}, apperrors.ComputationError{
			Stage: "metrics",
			Cause: fmt.Errorf("channel %d has no samples", index),
		}
	}

	var sumR, sumC, maxDiff float64
	minR, maxR := reference[0], reference[0]
	minC, maxC := candidate[0], candidate[0]
	for i := 0; i < n; i++ {
		r, c := reference[i], candidate[i]
		sumR += r
		sumC += c
		minR, maxR = math.Min(minR, r), math.Max(maxR, r)
		minC, maxC = math.Min(minC, c), math.Max(maxC, c)
		maxDiff = math.Max(maxDiff, math.Abs(r-c))
	}
	meanR := sumR / float64(n)
	meanC := sumC / float64(n)

	// Zero variance is detected from the exact range, not the summed squares.
	correlated := maxR != minR && maxC != minC

	// Deviations and differences are divided by their largest magnitude
	// before squaring so that neither tiny nor huge samples leave the
	// float64 range.
	scaleR := math.Max(maxR-meanR, meanR-minR)
	scaleC := math.Max(maxC-meanC, meanC-minC)

	var cov, varR, varC, sqErr, absErr float64
	for i := 0; i < n; i++ {
		if correlated {
			dr := (reference[i] - meanR) / scaleR
			dc := (candidate[i] - meanC) / scaleC
			cov += dr * dc
			varR += dr * dr
			varC += dc * dc
		}
		if maxDiff > 0 {
			d := (reference[i] - candidate[i]) / maxDiff
			sqErr += d * d
			absErr += math.Abs(d)
		}
	}

	m := ChannelMetrics{
		Channel: index,
		RMSE:    maxDiff * math.Sqrt(sqErr/float64(n)),
		MAE:     maxDiff * (absErr / float64(n)),
	}
	if correlated {
		// One square root: identical channels give exactly 1.
		m.Correlation = clamp(cov/math.Sqrt(varR*varC), -1, 1)
	}
	m.RSquared = m.Correlation * m.Correlation

	if rangeR := maxR - minR; rangeR != 0 {
		m.NRMSEPercent = 100 * (m.RMSE / rangeR)
	}

	if err := m.checkFinite(); err != nil {
		return ChannelMetrics{}, err
	}
	return m, nil
}

func (m ChannelMetrics) checkFinite() error {
	values := [...]struct {
		name string
		v    float64
	}{
		{"correlation", m.Correlation},
		{"r_squared", m.RSquared},
		{"rmse", m.RMSE},
		{"mae", m.MAE},
		{"nrmse", m.NRMSEPercent},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return apperrors.ComputationError{
				Stage: "metrics",
				Cause: fmt.Errorf("non-finite %s on channel %d", f.name, m.Channel),
			}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
