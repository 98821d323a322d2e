package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	BuildShortSHA = `(missing)`

	rootCmd = &cobra.Command{
		Use:               "autoexport",
		Short:             "Periodic wallet history exporter",
		Long:              `Exports wallet transaction history as CSV to local, FTP, and S3 destinations on a configurable interval.`,
		PersistentPreRunE: setupLogger,
	}
)

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(os.Stderr)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newExportCommand())
}

func Main(ctx context.Context, args []string, output io.Writer) error {
	rootCmd.SetOut(output)
	rootCmd.SetArgs(args[1:])

	return rootCmd.ExecuteContext(ctx)
}

func setupLogger(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.RFC3339
	})

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Str("build.sha", BuildShortSHA).
		Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	return nil
}
