package sink

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/format"
	"github.com/jlaffaye/ftp"
	"github.com/rs/zerolog"
)

const ftpDialTimeout = 30 * time.Second

type FTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Dir      string // optional; uploads to the login directory when empty
}

// complete reports whether enough fields are set to attempt a transfer.
func (c FTPConfig) complete() bool {
	return c.Host != "" && c.Port != 0 && c.User != "" && c.Password != ""
}

// FTP uploads each export as a timestamped CSV file over a plain FTP
// control connection. A failed transfer leaves any partial upload on
// the server; the next cycle writes a fresh filename anyway.
type FTP struct {
	cfg FTPConfig
	now func() time.Time
}

func NewFTP(cfg FTPConfig) *FTP {
	return &FTP{
		cfg: cfg,
		now: time.Now,
	}
}

func (f *FTP) Name() string {
	return "ftp"
}

func (f *FTP) Export(ctx context.Context, table *format.Table) error {
	if !f.cfg.complete() {
		zerolog.Ctx(ctx).Debug().Msg("ftp sink skipped: host, port, user, or password not configured")
		return nil
	}

	// Serialize before dialing so a formatting problem never leaves a
	// half-written remote file.
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return fmt.Errorf("serialize table: %w", err)
	}

	addr := net.JoinHostPort(f.cfg.Host, strconv.Itoa(f.cfg.Port))

	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(ftpDialTimeout),
	)
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	defer func() {
		_ = conn.Quit()
	}()

	if err := conn.Login(f.cfg.User, f.cfg.Password); err != nil {
		return fmt.Errorf("login as %s: %w", f.cfg.User, err)
	}

	if f.cfg.Dir != "" {
		if err := conn.ChangeDir(f.cfg.Dir); err != nil {
			return fmt.Errorf("change dir %s: %w", f.cfg.Dir, err)
		}
	}

	filename := format.Filename(f.now())
	if err := conn.Stor(filename, &buf); err != nil {
		return fmt.Errorf("store %s: %w", filename, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("host", f.cfg.Host).
		Str("file", filename).
		Int("rows", table.Len()).
		Msg("exported history over ftp")

	return nil
}
