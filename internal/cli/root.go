// Package cli is serac's command-line front end (spec §6), out of the
// THE CORE scope per spec §1 but still part of a complete repository.
// Enriched from the rest of the retrieval pack since the teacher ships
// no CLI at all: cobra root + one file per subcommand, matching
// CodeCracker-oss-Picocrypt-NG/src/internal/cli's structure, with the
// five-command surface and exit-code conventions taken from
// original_source/serac/commands.py.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/serac/internal/config"
	"github.com/prn-tf/serac/internal/lock"
)

// ErrUsage marks a CLI-level usage error, which maps to exit code 2
// (spec §6), distinct from a core error (exit code 1).
var ErrUsage = errors.New("usage error")

// New builds the root cobra command with all five serac subcommands.
// "archive" additionally accepts --metrics-addr to expose the ambient
// status/metrics surface (spec §4.9) for the duration of the run.
func New(logger zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "serac",
		Short:         "Incremental, point-in-time file archiver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flag parse failures (e.g. an unrecognized --at value) are usage
	// errors; subcommands inherit this from the root.
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	root.AddCommand(
		newTestCmd(logger),
		newInitCmd(logger),
		newArchiveCmd(logger),
		newLsCmd(logger),
		newRestoreCmd(logger),
	)

	return root
}

// loadAndLock parses the config file at path and acquires the exclusive
// advisory lock on it, matching original_source/serac/commands.py's
// cli() group: the lock is taken before any index or backend access and
// surfaces Busy if another process already holds it.
func loadAndLock(path string) (*config.Config, *lock.ConfigLock, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid config: %v", ErrUsage, err)
	}

	l, err := lock.Acquire(path)
	if err != nil {
		return nil, nil, err
	}

	return cfg, l, nil
}

// ExitCode maps an error returned from a subcommand to the process exit
// code per spec §6: 0 success, 1 core error, 2 usage error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrUsage) {
		return 2
	}
	return 1
}
