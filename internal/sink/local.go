package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/format"
	"github.com/rs/zerolog"
)

// Local writes each export to a timestamped CSV file in a directory.
type Local struct {
	dir string
	now func() time.Time
}

func NewLocal(dir string) *Local {
	return &Local{
		dir: dir,
		now: time.Now,
	}
}

func (l *Local) Name() string {
	return "local"
}

func (l *Local) Export(ctx context.Context, table *format.Table) error {
	if l.dir == "" {
		zerolog.Ctx(ctx).Debug().Msg("local sink skipped: no path configured")
		return nil
	}

	path := filepath.Join(l.dir, format.Filename(l.now()))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := table.WriteCSV(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", path).
		Int("rows", table.Len()).
		Msg("exported history to file")

	return nil
}
