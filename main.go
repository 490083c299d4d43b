package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/atm-ledger/api"
	"github.com/carson-networks/atm-ledger/internal/config"
	"github.com/carson-networks/atm-ledger/internal/logging"
	"github.com/carson-networks/atm-ledger/internal/metrics"
	"github.com/carson-networks/atm-ledger/internal/operator"
	"github.com/carson-networks/atm-ledger/internal/service"
	"github.com/carson-networks/atm-ledger/internal/storage"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		snapshotPath    string
		logLevel        string
		metricsTextfile string
	)

	cmd := &cobra.Command{
		Use:          "atm",
		Short:        "Interactive ATM backed by a local account snapshot",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envConfig, err := config.ProcessEnvironmentVariables()
			if err != nil {
				return errors.Wrap(err, "config.ProcessEnvironmentVariables")
			}
			if cmd.Flags().Changed("snapshot") {
				envConfig.SnapshotPath = snapshotPath
			}
			if cmd.Flags().Changed("log-level") {
				envConfig.LogLevel = logLevel
			}
			if cmd.Flags().Changed("metrics-textfile") {
				envConfig.MetricsTextfile = metricsTextfile
			}

			return run(cmd.Context(), envConfig, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path of the account snapshot file (env ATM_SNAPSHOT_PATH)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (env ATM_LOG_LEVEL)")
	cmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "write metrics here on exit (env ATM_METRICS_TEXTFILE)")
	return cmd
}

func run(ctx context.Context, envConfig *config.Config, in io.Reader, out io.Writer) error {
	logOut := io.Writer(os.Stderr)
	if envConfig.LogFile != "" {
		logFile, err := os.OpenFile(envConfig.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		defer logFile.Close()
		logOut = logFile
	}

	logger, err := logging.SetupLogging(envConfig.LogLevel, logOut)
	if err != nil {
		return err
	}
	logger.WithField("snapshot", envConfig.SnapshotPath).Info("atm starting")

	collector := metrics.NewMetricsCollector(logger)
	store := storage.NewStorage(envConfig,
		storage.WithLogger(logger),
		storage.WithObserver(collector),
	)

	outcome, loadErr := store.Load(ctx)
	if loadErr != nil && !errors.Is(loadErr, storage.ErrSnapshotCorrupt) {
		logger.WithError(loadErr).Error("storage.Load")
		return loadErr
	}

	logger.WithField("accounts", store.Len()).WithField("outcome", outcome.String()).Info("atm accounts ready")

	delegator := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers, logger)
	delegator.Start()

	console := api.Console{
		Logger:   logger,
		Service:  service.NewService(store, delegator, logger),
		Metrics:  collector,
		In:       in,
		Out:      out,
		Currency: envConfig.CurrencyLabel,
	}
	console.AnnounceLoad(outcome, loadErr)
	serveErr := console.Serve(ctx)

	delegator.Stop()
	shutdown(logger, store, collector, envConfig, out)

	return serveErr
}

// shutdown writes the final snapshot and metrics. Neither failure changes the
// exit status; the customer is warned instead.
func shutdown(logger *logrus.Logger, store *storage.Storage, collector *metrics.MetricsCollector, envConfig *config.Config, out io.Writer) {
	if err := store.Save(context.Background()); err != nil {
		logger.WithError(err).Warn("storage.Save.final save failed")
		_, _ = io.WriteString(out, "Warning: accounts could not be saved on exit.\n")
	}
	_ = collector.WriteTextfile(envConfig.MetricsTextfile)
	logger.Info("atm stopped")
}
