package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/prn-tf/serac/internal/commitengine"
	"github.com/prn-tf/serac/internal/index"
	"github.com/prn-tf/serac/internal/index/sqlite"
	"github.com/prn-tf/serac/internal/metrics"
	"github.com/prn-tf/serac/internal/reporter"
	"github.com/prn-tf/serac/internal/scanner"
)

func newArchiveCmd(logger zerolog.Logger) *cobra.Command {
	var verbose bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "archive CONFIG",
		Short: "Scan and archive any changes",
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

			fileRepo := sqlite.NewFileRepository(db)
			archivedRepo := sqlite.NewArchivedRepository(db)

			backend, err := buildBackend(ctx, cfg.Archive, logger)
			if err != nil {
				return err
			}

			var rep reporter.Reporter = reporter.Null{}
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), "Scanning...")
				rep = reporter.NewStdout(cmd.OutOrStdout())
			}

			lastState, err := index.StateAt(ctx, fileRepo, time.Now().Unix())
			if err != nil {
				return err
			}

			cs, err := scanner.Scan(ctx, archivedRepo, lastState, cfg.Source.Includes, cfg.Source.Excludes)
			if err != nil {
				return err
			}

			engine := commitengine.New(fileRepo, archivedRepo, backend, cfg.Archive.Password, logger)

			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				counters := metrics.NewCounters(reg)
				engine = engine.WithCounters(counters)

				srv := &http.Server{Addr: metricsAddr, Handler: metrics.Router(reg)}
				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logger.Error().Err(err).Msg("metrics server stopped")
					}
				}()
				defer srv.Close()
			}

			return engine.Commit(ctx, cs, rep)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /healthz and /metrics on this address during the run")

	return cmd
}
