package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/serac/internal/index/sqlite"
)

func newInitCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init CONFIG",
		Short: "Create a new index database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadAndLock(args[0])
			if err != nil {
				return err
			}
			defer l.Release()

			db, err := sqlite.Create(cmd.Context(), cfg.Index.Path)
			if err != nil {
				return err
			}
			defer db.Disconnect()

			fmt.Fprintln(cmd.OutOrStdout(), "Index database created")
			return nil
		},
	}
}
