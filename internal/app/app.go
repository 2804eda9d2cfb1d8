// Package app wires configuration, reference providers, the validation
// runner and the presentation layers into the sigvalid command tree.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agbru/sigvalid/internal/config"
	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/orchestration"
)

// Application represents the sigvalid application instance.
type Application struct {
	Out    io.Writer
	ErrOut io.Writer

	configPath string
	cfg        config.AppConfig
}

// New creates an application writing to out and errOut.
func New(out, errOut io.Writer) *Application {
	return &Application{Out: out, ErrOut: errOut, cfg: config.Default()}
}

// RootCommand builds the command tree.
func (a *Application) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sigvalid",
		Short: "Validate processed signals against a reference computation",
		Long: `sigvalid compares a processed multichannel signal with the output of a
reference implementation, computes per-channel similarity metrics and prints
a report with a verdict.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("sigvalid {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewConfigError("%v", err)
	})
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")

	root.AddCommand(a.newValidateCommand())
	root.AddCommand(a.newHistoryCommand())
	root.AddCommand(a.newVersionCommand())
	return root
}

// Execute runs the command tree with args and returns the process exit code.
// Failed runs were already presented; other errors are printed to ErrOut.
func (a *Application) Execute(ctx context.Context, args []string) int {
	root := a.RootCommand()
	root.SetArgs(args)
	root.SetOut(a.Out)
	root.SetErr(a.ErrOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return apperrors.ExitSuccess
	}
	var failure orchestration.Failure
	if !errors.As(err, &failure) {
		fmt.Fprintf(a.ErrOut, "Error: %v\n", err)
	}
	return apperrors.ExitCodeFor(err)
}

func (a *Application) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			PrintVersion(cmd.OutOrStdout())
		},
	}
}
