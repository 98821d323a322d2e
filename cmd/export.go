package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/autoexport"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/config"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/wallet/electrum"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run a single export cycle now",
		Long:  `Exports the wallet's history to every enabled destination once, ignoring the configured interval. Useful for verifying a new configuration.`,
		Args:  cobra.NoArgs,
		Example: `# Export using settings from autoexport.json
autoexport export --wallet-url http://127.0.0.1:7777

# Against a different settings file
autoexport export --wallet-url http://127.0.0.1:7777 --config /etc/autoexport.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			opts, err := loadDaemonOptions(cmd)
			if err != nil {
				return err
			}

			store, err := config.OpenFileStore(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("open settings: %w", err)
			}

			if err := config.FromStore(store).Validate(ctx); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}

			session := autoexport.NewSession(store)
			defer session.Close()

			w := electrum.New(opts.WalletURL, &http.Client{},
				electrum.WithBasicAuth(opts.WalletRPCUser, opts.WalletRPCPassword),
			)
			session.WalletLoaded(ctx, w)

			if err := session.ExportOnce(ctx); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			return nil
		},
	}

	addDaemonFlags(cmd)

	return cmd
}
