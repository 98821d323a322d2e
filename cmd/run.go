package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/autoexport"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/config"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/metrics"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/wallet/electrum"
)

// daemonOptions are the runtime settings for the daemon, distinct from
// the export settings kept in the config store. Environment variables
// use the AUTOEXPORT_ prefix, e.g. AUTOEXPORT_WALLET_URL.
type daemonOptions struct {
	ConfigPath        string `split_words:"true" default:"autoexport.json"`
	WalletURL         string `split_words:"true"`
	WalletRPCUser     string `split_words:"true"`
	WalletRPCPassword string `split_words:"true"`
	MetricsAddr       string `split_words:"true"`
}

func loadDaemonOptions(cmd *cobra.Command) (*daemonOptions, error) {
	var opts daemonOptions
	if err := envconfig.Process("autoexport", &opts); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	// Flags win over environment.
	if cmd.Flags().Changed("config") {
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
	}
	if cmd.Flags().Changed("wallet-url") {
		opts.WalletURL, _ = cmd.Flags().GetString("wallet-url")
	}
	if cmd.Flags().Changed("metrics-addr") {
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
	}

	if opts.WalletURL == "" {
		return nil, errors.New("wallet RPC URL is required (--wallet-url or AUTOEXPORT_WALLET_URL)")
	}

	return &opts, nil
}

func addDaemonFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to the settings file (default autoexport.json)")
	cmd.Flags().String("wallet-url", "", "Electrum daemon JSON-RPC URL")
	cmd.Flags().String("metrics-addr", "", "Optional listen address for Prometheus metrics")
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the auto-export daemon",
		Long:  `Watches the settings file and exports wallet history on the configured interval until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), cmd)
		},
	}

	addDaemonFlags(cmd)

	return cmd
}

func runDaemon(ctx context.Context, cmd *cobra.Command) error {
	logger := zerolog.Ctx(ctx)

	opts, err := loadDaemonOptions(cmd)
	if err != nil {
		return err
	}

	store, err := config.OpenFileStore(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	if err := config.FromStore(store).Validate(ctx); err != nil {
		logger.Warn().Err(err).Msg("settings incomplete; affected sinks will be skipped")
	}

	session := autoexport.NewSession(store,
		autoexport.WithStatus(statusLogger{ctx: ctx}),
		autoexport.WithMetrics(metrics.New(nil)),
	)
	defer session.Close()

	bus := autoexport.NewBus()
	session.Bind(bus)

	w := electrum.New(opts.WalletURL, &http.Client{},
		electrum.WithBasicAuth(opts.WalletRPCUser, opts.WalletRPCPassword),
	)

	bus.PublishSettingsChanged(ctx)
	bus.PublishWalletLoaded(ctx, w)

	if opts.MetricsAddr != "" {
		server := &http.Server{
			Addr:              opts.MetricsAddr,
			Handler:           metrics.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info().Str("addr", opts.MetricsAddr).Msg("serving metrics")

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	logger.Info().Str("wallet.url", opts.WalletURL).Msg("auto-export daemon started")

	<-ctx.Done()

	bus.PublishWalletClosed(context.WithoutCancel(ctx))
	logger.Info().Msg("auto-export daemon stopped")

	return nil
}

// statusLogger mirrors the status-bar indicator of the original wallet
// UI into the daemon's log.
type statusLogger struct {
	ctx context.Context
}

func (s statusLogger) Update(label string, active bool) {
	zerolog.Ctx(s.ctx).Info().
		Str("status", label).
		Bool("active", active).
		Msg("auto-export status changed")
}
