package comparison

import (
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/sigvalid/internal/metrics"
)

func TestAggregateMeans(t *testing.T) {
	t.Parallel()
	channels := []metrics.ChannelMetrics{
		{Channel: 0, Correlation: 1.0, RSquared: 1.0, RMSE: 0.0, MAE: 0.0, NRMSEPercent: 0.0},
		{Channel: 1, Correlation: 0.9, RSquared: 0.81, RMSE: 2.0, MAE: 1.0, NRMSEPercent: 4.0},
	}

	res := Aggregate(channels, 250)

	assert.InDelta(t, 0.95, res.Summary.Correlation, 1e-12)
	assert.InDelta(t, 0.905, res.Summary.RSquared, 1e-12)
	assert.InDelta(t, 1.0, res.Summary.RMSE, 1e-12)
	assert.InDelta(t, 0.5, res.Summary.MAE, 1e-12)
	assert.InDelta(t, 2.0, res.Summary.NRMSEPercent, 1e-12)
	assert.Equal(t, Good, res.Verdict)
	assert.Equal(t, 250.0, res.SampleRate)
	assert.Equal(t, channels, res.Channels)
}

func TestAggregateCopiesChannels(t *testing.T) {
	t.Parallel()
	channels := []metrics.ChannelMetrics{{Channel: 0, Correlation: 1}}
	res := Aggregate(channels, 100)
	channels[0].Correlation = 0
	assert.Equal(t, 1.0, res.Channels[0].Correlation)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()
	res := Aggregate(nil, 100)
	assert.Empty(t, res.Channels)
	assert.Equal(t, Summary{}, res.Summary)
	assert.Equal(t, Poor, res.Verdict)
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		correlation float64
		nrmse       float64
		want        Verdict
	}{
		{"perfect", 1.0, 0, Excellent},
		{"excellent boundary", 0.98, 5.0, Excellent},
		{"excellent correlation but high nrmse", 0.99, 6.0, Good},
		{"good boundary", 0.95, 10.0, Good},
		{"good correlation but very high nrmse", 0.96, 12.0, Moderate},
		{"moderate boundary", 0.90, 50.0, Moderate},
		{"just below moderate", 0.8999, 0, Poor},
		{"anti-correlated", -1.0, 0, Poor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.correlation, tt.nrmse); got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.correlation, tt.nrmse, got, tt.want)
			}
		})
	}
}

func TestVerdictStrings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		verdict Verdict
		token   string
	}{
		{Excellent, "EXCELLENT"},
		{Good, "GOOD"},
		{Moderate, "MODERATE"},
		{Poor, "POOR"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.token, tt.verdict.String())
			assert.NotEmpty(t, tt.verdict.Guidance())
			assert.Equal(t, tt.token+": "+tt.verdict.Guidance(), tt.verdict.Line())

			parsed, err := ParseVerdict(" " + tt.token + " ")
			require.NoError(t, err)
			assert.Equal(t, tt.verdict, parsed)
		})
	}
	assert.Equal(t, "Verdict(9)", Verdict(9).String())
}

func TestParseVerdictRejectsUnknown(t *testing.T) {
	t.Parallel()
	_, err := ParseVerdict("great")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"great"`)
}

func TestVerdictText(t *testing.T) {
	t.Parallel()
	var v Verdict
	require.NoError(t, v.UnmarshalText([]byte("moderate")))
	assert.Equal(t, Moderate, v)

	b, err := Good.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "GOOD", string(b))

	assert.Error(t, v.UnmarshalText([]byte("nope")))
}

func TestVerdictAtLeast(t *testing.T) {
	t.Parallel()
	assert.True(t, Excellent.AtLeast(Good))
	assert.True(t, Good.AtLeast(Good))
	assert.False(t, Moderate.AtLeast(Good))
	assert.True(t, Poor.AtLeast(Poor))
}

// channelsGen generates 1 to 32 channels with independent random metrics.
func channelsGen() gopter.Gen {
	metricGen := gopter.CombineGens(
		gen.Float64Range(-1, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 200),
	).Map(func(v []interface{}) metrics.ChannelMetrics {
		return metrics.ChannelMetrics{
			Correlation:  v[0].(float64),
			RSquared:     v[1].(float64),
			RMSE:         v[2].(float64),
			MAE:          v[3].(float64),
			NRMSEPercent: v[4].(float64),
		}
	})
	return gen.IntRange(1, 32).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), metricGen)
	}, reflect.TypeOf([]metrics.ChannelMetrics(nil)))
}

func mean(channels []metrics.ChannelMetrics, field func(metrics.ChannelMetrics) float64) float64 {
	var sum float64
	for _, c := range channels {
		sum += field(c)
	}
	return sum / float64(len(channels))
}

// TestAggregateProperties checks that summaries are the arithmetic means of
// the per-channel values and that the verdict follows the summary.
func TestAggregateProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("every summary field is the mean", prop.ForAll(
		func(channels []metrics.ChannelMetrics) bool {
			res := Aggregate(channels, 100)
			fields := []struct {
				got   float64
				value func(metrics.ChannelMetrics) float64
			}{
				{res.Summary.Correlation, func(c metrics.ChannelMetrics) float64 { return c.Correlation }},
				{res.Summary.RSquared, func(c metrics.ChannelMetrics) float64 { return c.RSquared }},
				{res.Summary.RMSE, func(c metrics.ChannelMetrics) float64 { return c.RMSE }},
				{res.Summary.MAE, func(c metrics.ChannelMetrics) float64 { return c.MAE }},
				{res.Summary.NRMSEPercent, func(c metrics.ChannelMetrics) float64 { return c.NRMSEPercent }},
			}
			for _, f := range fields {
				if math.Abs(f.got-mean(channels, f.value)) > 1e-9 {
					return false
				}
			}
			return len(res.Channels) == len(channels)
		},
		channelsGen(),
	))

	properties.Property("verdict matches Classify of the summary", prop.ForAll(
		func(channels []metrics.ChannelMetrics) bool {
			res := Aggregate(channels, 100)
			return res.Verdict == Classify(res.Summary.Correlation, res.Summary.NRMSEPercent)
		},
		channelsGen(),
	))

	properties.TestingRun(t)
}
