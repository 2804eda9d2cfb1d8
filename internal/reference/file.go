package reference

import (
	"context"
	"errors"
	"io/fs"
	"os"

	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/recording"
)

// FileProvider serves a reference computed ahead of time, for example one
// exported from MNE-Python as CSV.
type FileProvider struct {
	Path string
}

// ComputeReference loads the CSV at p.Path using the request's sampling rate.
func (p FileProvider) ComputeReference(ctx context.Context, req Request) (recording.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return recording.Matrix{}, err
	}
	if _, err := os.Stat(p.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return recording.Matrix{}, apperrors.NewReferenceUnavailable("reference file %s not found", p.Path)
		}
		return recording.Matrix{}, apperrors.NewReferenceUnavailable("reference file %s is not readable: %v", p.Path, err)
	}

	m, err := recording.LoadCSV(p.Path, req.SampleRate)
	if err != nil {
		return recording.Matrix{}, apperrors.NewReferenceUnavailable("reference file %s is invalid: %v", p.Path, err)
	}
	return m, nil
}
