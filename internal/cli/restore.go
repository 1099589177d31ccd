package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/index/sqlite"
	"github.com/prn-tf/serac/internal/reporter"
	"github.com/prn-tf/serac/internal/restoreengine"
)

func newRestoreCmd(logger zerolog.Logger) *cobra.Command {
	at := &timestampFlag{}
	var pattern string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "restore CONFIG DEST",
		Short: "Restore from the archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, dest := args[0], args[1]

			cfg, l, err := loadAndLock(configPath)
			if err != nil {
				return err
			}
			defer l.Release()

			ctx := cmd.Context()
			db, err := sqlite.Connect(ctx, cfg.Index.Path)
			if err != nil {
				return err
			}
			defer db.Disconnect()

			ts := at.value
			if !at.set {
				ts = time.Now().Unix()
			}

			backend, err := buildBackend(ctx, cfg.Archive, logger)
			if err != nil {
				return err
			}

			var rep reporter.Reporter = reporter.Null{}
			if verbose {
				rep = reporter.NewStdout(cmd.OutOrStdout())
			}

			fileRepo := sqlite.NewFileRepository(db)
			engine := restoreengine.New(fileRepo, backend, cfg.Archive.Password, logger)

			result, err := engine.Restore(ctx, ts, dest, domain.NewPattern(pattern), true, rep)
			if err != nil {
				return err
			}

			if len(result) == 0 {
				return fmt.Errorf("path not found")
			}

			if verbose {
				plural := "s"
				if len(result) == 1 {
					plural = ""
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d file%s\n", len(result), plural)
			}
			return nil
		},
	}

	cmd.Flags().Var(at, "at", "Date and time (or timestamp) to go back to")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Path to file in archive")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Provide a progress report")

	return cmd
}
