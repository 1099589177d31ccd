package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/serac/internal/config"
)

func newTestCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "test CONFIG",
		Short: "Test the config file is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(args[0]); err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Config file syntax is correct")
			return nil
		},
	}
}
