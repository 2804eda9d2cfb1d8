// Package comparison combines per-channel metrics into summary averages and
// a categorical verdict.
package comparison

import "github.com/agbru/sigvalid/internal/metrics"

// Summary holds the unweighted means of each metric over the compared channels.
type Summary struct {
	Correlation  float64
	RSquared     float64
	RMSE         float64
	MAE          float64
	NRMSEPercent float64
}

// Result is the immutable outcome of comparing two recordings.
type Result struct {
	// Channels holds one entry per compared channel, in channel order.
	Channels []metrics.ChannelMetrics
	Summary  Summary
	Verdict  Verdict
	// SampleRate is the sampling rate of the compared recordings in Hz.
	SampleRate float64
}

// Aggregate averages channels and classifies the averages. The input slice
// is copied. No channels yield a zero summary and a Poor verdict.
func Aggregate(channels []metrics.ChannelMetrics, sampleRate float64) Result {
	res := Result{
		Channels:   append([]metrics.ChannelMetrics(nil), channels...),
		SampleRate: sampleRate,
	}
	if len(channels) == 0 {
		res.Verdict = Poor
		return res
	}

	var s Summary
	for _, m := range channels {
		s.Correlation += m.Correlation
		s.RSquared += m.RSquared
		s.RMSE += m.RMSE
		s.MAE += m.MAE
		s.NRMSEPercent += m.NRMSEPercent
	}
	n := float64(len(channels))
	s.Correlation /= n
	s.RSquared /= n
	s.RMSE /= n
	s.MAE /= n
	s.NRMSEPercent /= n

	res.Summary = s
	res.Verdict = Classify(s.Correlation, s.NRMSEPercent)
	return res
}
