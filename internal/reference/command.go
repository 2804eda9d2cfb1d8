package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/recording"
)

// Environment variables passed to reference commands.
const (
	EnvSampleRate = "SIGVALID_SAMPLE_RATE"
	EnvChannels   = "SIGVALID_CHANNELS"
)

// CommandProvider delegates the reference computation to an external
// program. The request signal is written to its stdin as CSV and the
// reference is read back from its stdout in the same format. A non-zero exit
// makes the reference unavailable, with the program's stderr as the reason.
type CommandProvider struct {
	Command string
	Args    []string
	// Env is appended to the current process environment.
	Env []string
}

// ParseCommand splits a command line on whitespace into a CommandProvider.
// Quoting is not supported.
func ParseCommand(line string) (CommandProvider, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandProvider{}, apperrors.NewConfigError("reference command is empty")
	}
	return CommandProvider{Command: fields[0], Args: fields[1:]}, nil
}

// ComputeReference runs the command. It is killed when ctx is done.
func (p CommandProvider) ComputeReference(ctx context.Context, req Request) (recording.Matrix, error) {
	var stdin, stdout, stderr bytes.Buffer
	if err := recording.WriteCSV(&stdin, req.Signal); err != nil {
		return recording.Matrix{}, apperrors.WrapError(err, "encode reference request")
	}

	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), p.Env...)
	cmd.Env = append(cmd.Env,
		EnvSampleRate+"="+strconv.FormatFloat(req.SampleRate, 'f', -1, 64),
		EnvChannels+"="+strings.Join(req.ChannelNames, ","),
	)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return recording.Matrix{}, ctxErr
		}
		return recording.Matrix{}, p.unavailable(err, stderr.String())
	}

	m, err := recording.ReadCSV(&stdout, req.SampleRate)
	if err != nil {
		return recording.Matrix{}, apperrors.NewReferenceUnavailable("reference command %s produced invalid output: %v", p.Command, err)
	}
	return m, nil
}

func (p CommandProvider) unavailable(runErr error, stderr string) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return &apperrors.ReferenceUnavailableError{Reason: msg}
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return apperrors.NewReferenceUnavailable("reference command %s exited with status %d", p.Command, exitErr.ExitCode())
	}
	if errors.Is(runErr, exec.ErrNotFound) {
		return apperrors.NewReferenceUnavailable("reference command %s not found", p.Command)
	}
	return &apperrors.ReferenceUnavailableError{Reason: fmt.Sprintf("reference command %s failed: %v", p.Command, runErr)}
}
