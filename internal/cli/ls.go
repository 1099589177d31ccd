package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/index"
	"github.com/prn-tf/serac/internal/index/sqlite"
	"github.com/prn-tf/serac/internal/serac"
)

func newLsCmd(logger zerolog.Logger) *cobra.Command {
	at := &timestampFlag{}
	var pattern string

	cmd := &cobra.Command{
		Use:   "ls CONFIG",
		Short: "Show the status of the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadAndLock(args[0])
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

			fileRepo := sqlite.NewFileRepository(db)
			state, err := index.Search(ctx, fileRepo, ts, domain.NewPattern(pattern))
			if err != nil {
				return err
			}

			if state.Len() == 0 {
				if pattern != "" {
					return fmt.Errorf("no files found at %s: %w", pattern, serac.ErrNotFound)
				}
				return fmt.Errorf("no files found: %w", serac.ErrArchiveEmpty)
			}

			for _, f := range state.ByPath() {
				printFile(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().Var(at, "at", "Date and time (or timestamp) to go back to")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Path to file")

	return cmd
}

func printFile(w io.Writer, f *domain.File) {
	fmt.Fprintf(w, "%s %8d %8d %s %s\n",
		permString(f.Permissions), f.Owner, f.Group,
		time.Unix(f.LastModified, 0).Format("Jan _2 15:04"),
		f.Path,
	)
}

func permString(mode uint32) string {
	b := []byte(os.FileMode(mode).String())
	if len(b) > 10 {
		b = b[len(b)-10:]
	}
	return string(b)
}
