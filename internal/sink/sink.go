package sink

import (
	"context"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/config"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/format"
)

// Sink is a destination that persists or transmits one export table.
// Implementations skip silently (returning nil) when their own
// configuration is incomplete; any real delivery failure is returned to
// the caller and is terminal for that cycle only.
type Sink interface {
	Name() string
	Export(ctx context.Context, table *format.Table) error
}

// FromConfig returns the sinks enabled by the given snapshot, in a
// stable order. Sinks are independent: the coordinator attempts every
// one of them each cycle regardless of earlier failures.
func FromConfig(cfg config.Config) []Sink {
	sinks := make([]Sink, 0, 3)

	if cfg.ExportToLocal {
		sinks = append(sinks, NewLocal(cfg.LocalPath))
	}

	if cfg.ExportToFTP {
		sinks = append(sinks, NewFTP(FTPConfig{
			Host:     cfg.FTPHost,
			Port:     cfg.FTPPort,
			User:     cfg.FTPUser,
			Password: cfg.FTPPassword,
			Dir:      cfg.FTPDir,
		}))
	}

	if cfg.ExportToS3 {
		sinks = append(sinks, NewS3(S3Config{
			Bucket: cfg.S3Bucket,
			Region: cfg.S3Region,
			Prefix: cfg.S3Prefix,
		}))
	}

	return sinks
}
