//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks

// Package reference defines the collaborator that computes the trusted
// reference version of a recording, and adapters backed by a precomputed
// file or an external command.
package reference

import (
	"context"

	"github.com/agbru/sigvalid/internal/recording"
)

// Request is what a Provider receives: the signal to process together with
// its sampling rate and channel names.
type Request struct {
	Signal       recording.Matrix
	SampleRate   float64
	ChannelNames []string
}

// Provider computes the reference version of a signal.
//
// A provider that cannot produce a reference returns a
// *apperrors.ReferenceUnavailableError whose message is shown to the user
// unchanged. Callers never retry.
type Provider interface {
	ComputeReference(ctx context.Context, req Request) (recording.Matrix, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req Request) (recording.Matrix, error)

// ComputeReference calls f.
func (f ProviderFunc) ComputeReference(ctx context.Context, req Request) (recording.Matrix, error) {
	return f(ctx, req)
}
