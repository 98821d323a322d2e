package sink_test

import (
	"testing"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/config"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/sink"
	"github.com/stretchr/testify/require"
)

func TestFromConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg           config.Config
		expectedNames []string
	}{
		"nothing enabled": {
			cfg:           config.Config{LocalPath: "/tmp", FTPHost: "ftp.example.com"},
			expectedNames: []string{},
		},
		"local only": {
			cfg:           config.Config{ExportToLocal: true, LocalPath: "/tmp"},
			expectedNames: []string{"local"},
		},
		"all sinks in stable order": {
			cfg: config.Config{
				ExportToLocal: true,
				ExportToFTP:   true,
				ExportToS3:    true,
			},
			expectedNames: []string{"local", "ftp", "s3"},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sinks := sink.FromConfig(test.cfg)

			names := make([]string, 0, len(sinks))
			for _, s := range sinks {
				names = append(names, s.Name())
			}

			require.Equal(t, test.expectedNames, names)
		})
	}
}
