// Package recording defines the multichannel signal matrix exchanged between
// the validator, the reference provider and the candidate pipeline, together
// with a CSV codec for moving matrices through files and pipes.
package recording

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/sigvalid/internal/errors"
)

// Matrix is an ordered set of equally long channels sampled at SampleRate Hz.
// Names labels the channels by index and may be shorter than Channels.
//
// A Matrix handed to the validator is treated as read-only until the run
// delivers its terminal outcome.
type Matrix struct {
	Channels   [][]float64
	SampleRate float64
	Names      []string
}

// NewMatrix builds a Matrix and validates its shape.
func NewMatrix(channels [][]float64, sampleRate float64, names []string) (Matrix, error) {
	m := Matrix{Channels: channels, SampleRate: sampleRate, Names: names}
	if err := m.Validate(); err != nil {
		return Matrix{}, err
	}
	return m, nil
}

// Validate checks the matrix invariants: a positive, finite sample rate and
// equal channel lengths.
func (m Matrix) Validate() error {
	if m.SampleRate <= 0 || math.IsNaN(m.SampleRate) || math.IsInf(m.SampleRate, 0) {
		return apperrors.ValidationError{
			Field:   "sample_rate",
			Message: fmt.Sprintf("must be a positive number of Hz, got %v", m.SampleRate),
		}
	}
	if len(m.Channels) == 0 {
		return nil
	}
	n := len(m.Channels[0])
	for i, ch := range m.Channels[1:] {
		if len(ch) != n {
			return apperrors.ValidationError{
				Field:   "channels",
				Message: fmt.Sprintf("channel %d has %d samples, channel 0 has %d", i+1, len(ch), n),
			}
		}
	}
	return nil
}

// IsEmpty reports whether the matrix holds no channels.
func (m Matrix) IsEmpty() bool { return len(m.Channels) == 0 }

// NumChannels returns the number of channels.
func (m Matrix) NumChannels() int { return len(m.Channels) }

// Samples returns the per-channel sample count (0 for an empty matrix).
func (m Matrix) Samples() int {
	if len(m.Channels) == 0 {
		return 0
	}
	return len(m.Channels[0])
}

// Channel returns channel i. It panics if i is out of range.
func (m Matrix) Channel(i int) []float64 { return m.Channels[i] }

// Label returns the display label of channel i.
func (m Matrix) Label(i int) string { return ChannelLabel(m.Names, i) }

// ChannelLabel returns names[i] when i is within the name list, and the
// synthetic "Channel {i}" label otherwise.
func ChannelLabel(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("Channel %d", i)
}

// CommonChannels returns how many index-aligned channels two matrices share.
func CommonChannels(a, b Matrix) int {
	return min(a.NumChannels(), b.NumChannels())
}
