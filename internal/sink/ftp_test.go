package sink_test

import (
	"testing"
	"time"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/sink"
	"github.com/stretchr/testify/require"
)

func TestFTPExport(t *testing.T) {
	t.Parallel()

	t.Run("no-op when configuration incomplete", func(t *testing.T) {
		t.Parallel()

		tests := map[string]sink.FTPConfig{
			"missing host":     {Port: 21, User: "u", Password: "p"},
			"missing port":     {Host: "ftp.example.com", User: "u", Password: "p"},
			"missing user":     {Host: "ftp.example.com", Port: 21, Password: "p"},
			"missing password": {Host: "ftp.example.com", Port: 21, User: "u"},
		}
		for name, cfg := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				start := time.Now()
				err := sink.NewFTP(cfg).Export(t.Context(), testTable())

				// A skip returns immediately: no dial is attempted.
				require.NoError(t, err)
				require.Less(t, time.Since(start), time.Second)
			})
		}
	})

	t.Run("unreachable host reports failure", func(t *testing.T) {
		t.Parallel()

		ftp := sink.NewFTP(sink.FTPConfig{
			Host:     "127.0.0.1",
			Port:     1, // nothing listens here
			User:     "backup",
			Password: "hunter2",
		})

		err := ftp.Export(t.Context(), testTable())
		require.ErrorContains(t, err, "connect")
	})

	t.Run("name", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "ftp", sink.NewFTP(sink.FTPConfig{}).Name())
	})
}
