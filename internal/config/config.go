package config

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Configuration keys as persisted by the host's settings store.
const (
	KeyIntervalSeconds = "autoexport_interval_seconds"
	KeyExportToLocal   = "autoexport_need_export_to_local"
	KeyExportToFTP     = "autoexport_need_export_to_ftp"
	KeyExportToS3      = "autoexport_need_export_to_s3"
	KeyLocalPath       = "autoexport_local_path"
	KeyFTPHost         = "autoexport_ftp_host"
	KeyFTPPort         = "autoexport_ftp_port"
	KeyFTPUser         = "autoexport_ftp_user"
	KeyFTPPassword     = "autoexport_ftp_password"
	KeyFTPDir          = "autoexport_ftp_dir"
	KeyS3Bucket        = "autoexport_s3_bucket"
	KeyS3Region        = "autoexport_s3_region"
	KeyS3Prefix        = "autoexport_s3_prefix"
)

const DefaultFTPPort = 21

// Store is the host's persisted key/value settings store.
type Store interface {
	Get(key string, fallback any) any
	SetKey(key string, value any) error
}

// Config is an immutable snapshot of the auto-export settings. The
// coordinator takes a fresh snapshot on each settings event, never
// mid-export, so one cycle always sees a consistent set of fields.
type Config struct {
	IntervalSeconds int

	ExportToLocal bool
	LocalPath     string

	ExportToFTP bool
	FTPHost     string
	FTPPort     int
	FTPUser     string
	FTPPassword string
	FTPDir      string

	ExportToS3 bool
	S3Bucket   string
	S3Region   string
	S3Prefix   string
}

// FromStore snapshots the current settings, applying defaults for
// missing keys.
func FromStore(s Store) Config {
	return Config{
		IntervalSeconds: getInt(s, KeyIntervalSeconds, 0),
		ExportToLocal:   getBool(s, KeyExportToLocal, false),
		LocalPath:       getString(s, KeyLocalPath, ""),
		ExportToFTP:     getBool(s, KeyExportToFTP, false),
		FTPHost:         getString(s, KeyFTPHost, ""),
		FTPPort:         getInt(s, KeyFTPPort, DefaultFTPPort),
		FTPUser:         getString(s, KeyFTPUser, ""),
		FTPPassword:     getString(s, KeyFTPPassword, ""),
		FTPDir:          getString(s, KeyFTPDir, ""),
		ExportToS3:      getBool(s, KeyExportToS3, false),
		S3Bucket:        getString(s, KeyS3Bucket, ""),
		S3Region:        getString(s, KeyS3Region, ""),
		S3Prefix:        getString(s, KeyS3Prefix, ""),
	}
}

// Interval returns the export interval as a duration. Zero means
// auto-export is disabled.
func (c Config) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 0
	}

	return time.Duration(c.IntervalSeconds) * time.Second
}

// Enabled reports whether auto-export is active: an interval is set and
// at least one sink is switched on.
func (c Config) Enabled() bool {
	return c.IntervalSeconds > 0 && (c.ExportToLocal || c.ExportToFTP || c.ExportToS3)
}

// Validate checks the snapshot for settings that can never work, e.g.
// an enabled sink missing its destination. An incomplete sink is still
// legal at runtime (it skips silently); validation exists so the CLI
// can warn the user up front.
func (c Config) Validate(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.IntervalSeconds, validation.Min(0)),
		validation.Field(&c.LocalPath, validation.When(c.ExportToLocal, validation.Required.Error("is required when local export is enabled"))),
		validation.Field(&c.FTPHost, validation.When(c.ExportToFTP, validation.Required.Error("is required when FTP export is enabled"))),
		validation.Field(&c.FTPPort, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.FTPUser, validation.When(c.ExportToFTP, validation.Required.Error("is required when FTP export is enabled"))),
		validation.Field(&c.FTPPassword, validation.When(c.ExportToFTP, validation.Required.Error("is required when FTP export is enabled"))),
		validation.Field(&c.S3Bucket, validation.When(c.ExportToS3, validation.Required.Error("is required when S3 export is enabled"))),
	)
}

func getString(s Store, key, fallback string) string {
	value, ok := s.Get(key, fallback).(string)
	if !ok {
		return fallback
	}

	return value
}

func getBool(s Store, key string, fallback bool) bool {
	value, ok := s.Get(key, fallback).(bool)
	if !ok {
		return fallback
	}

	return value
}

// getInt tolerates the numeric types a JSON-backed store hands back.
func getInt(s Store, key string, fallback int) int {
	switch value := s.Get(key, fallback).(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	case string:
		// The original settings form persisted some numeric fields as text.
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fallback
		}
		return n
	default:
		return fallback
	}
}
