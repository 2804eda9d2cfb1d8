package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/sigvalid/internal/recording"
)

// TestMetrics_PropertyBased checks algebraic properties of the channel
// metrics over random channels.
func TestMetrics_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	channel := gen.SliceOfN(64, gen.Float64Range(-500, 500))

	properties.Property("identical channels agree perfectly", prop.ForAll(
		func(ref []float64) bool {
			m, err := Compute(0, ref, ref)
			if err != nil {
				return false
			}
			return m.RMSE == 0 && m.MAE == 0 && m.NRMSEPercent == 0 &&
				m.Correlation == 1 && m.RSquared == 1
		},
		channel,
	))

	properties.Property("metrics are finite and bounded", prop.ForAll(
		func(ref, cand []float64) bool {
			m, err := Compute(0, ref, cand)
			if err != nil {
				return false
			}
			return m.Correlation >= -1 && m.Correlation <= 1 &&
				m.RSquared >= 0 && m.RSquared <= 1 &&
				m.RMSE >= 0 && m.MAE >= 0 && m.NRMSEPercent >= 0 &&
				m.MAE <= m.RMSE+1e-9
		},
		channel, channel,
	))

	properties.Property("correlation is symmetric", prop.ForAll(
		func(ref, cand []float64) bool {
			a, errA := Compute(0, ref, cand)
			b, errB := Compute(0, cand, ref)
			if errA != nil || errB != nil {
				return false
			}
			return math.Abs(a.Correlation-b.Correlation) < 1e-9 &&
				math.Abs(a.RMSE-b.RMSE) < 1e-9
		},
		channel, channel,
	))

	properties.Property("a constant bias leaves correlation unchanged", prop.ForAll(
		func(ref []float64, bias float64) bool {
			cand := make([]float64, len(ref))
			for i, v := range ref {
				cand[i] = v + bias
			}
			m, err := Compute(0, ref, cand)
			if err != nil {
				return false
			}
			return math.Abs(m.Correlation-1) < 1e-6 && math.Abs(m.RMSE-math.Abs(bias)) < 1e-6
		},
		channel, gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}

// TestCompareMatrices_PropertyBased checks that concurrent comparison matches
// sequential Compute calls channel by channel.
func TestCompareMatrices_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	channels := gen.SliceOfN(6, gen.SliceOfN(32, gen.Float64Range(-10, 10)))

	properties.Property("concurrent result equals sequential result", prop.ForAll(
		func(ref, cand [][]float64, workers int) bool {
			refM := recording.Matrix{Channels: ref, SampleRate: 100}
			candM := recording.Matrix{Channels: cand[:4], SampleRate: 100}
			got, err := CompareMatrices(context.Background(), refM, candM, workers)
			if err != nil || len(got) != 4 {
				return false
			}
			for i := range got {
				want, err := Compute(i, ref[i], cand[i])
				if err != nil || want != got[i] {
					return false
				}
			}
			return true
		},
		channels, channels, gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}
