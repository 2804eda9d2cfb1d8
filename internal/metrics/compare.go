package metrics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/sigvalid/internal/recording"
)

// CompareMatrices computes ChannelMetrics for the first
// min(reference.NumChannels(), candidate.NumChannels()) index-aligned
// channels. Channels are compared concurrently, at most workers at a time
// (unbounded when workers <= 0); the result is always in channel order.
//
// On failure no partial result is returned. When several channels fail, the
// error of the lowest channel index is reported.
func CompareMatrices(ctx context.Context, reference, candidate recording.Matrix, workers int) ([]ChannelMetrics, error) {
	n := recording.CommonChannels(reference, candidate)
	results := make([]ChannelMetrics, n)
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := Compute(i, reference.Channel(i), candidate.Channel(i))
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = m
			return nil
		})
	}

	waitErr := g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
