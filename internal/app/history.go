package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agbru/sigvalid/internal/cli"
	"github.com/agbru/sigvalid/internal/config"
	apperrors "github.com/agbru/sigvalid/internal/errors"
	"github.com/agbru/sigvalid/internal/history"
	"github.com/agbru/sigvalid/internal/ui"
)

// DefaultHistoryLimit is the number of runs listed by default.
const DefaultHistoryLimit = 20

func (a *Application) newHistoryCommand() *cobra.Command {
	var (
		path    string
		limit   int
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded validation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("history") {
				var err error
				if path, err = a.historyPath(); err != nil {
					return err
				}
			}
			if path == "" {
				return apperrors.NewConfigError("--history is required (or set %sHISTORY)", config.EnvPrefix)
			}
			if limit < 0 {
				return apperrors.NewConfigError("--limit must not be negative, got %d", limit)
			}
			ui.InitTheme(noColor)

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			cli.PresentHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "history", "", "SQLite history database")
	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

// historyPath returns the history database from the environment, or from
// the config file when one is given.
func (a *Application) historyPath() (string, error) {
	if v, ok := os.LookupEnv(config.EnvPrefix + "HISTORY"); ok {
		return v, nil
	}
	if a.configPath == "" {
		return "", nil
	}
	cfg := config.Default()
	if err := config.LoadFile(a.configPath, &cfg); err != nil {
		return "", err
	}
	return cfg.History, nil
}
