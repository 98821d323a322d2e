package format

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/domain"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/wallet"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	timeLayout     = "2006-01-02 15:04" // matches the wallet UI's history timestamps
	filenameLayout = "2006_01_02__15_04_05"

	placeholderValue = "--"
	markUnverified   = "unverified"
	markUnconfirmed  = "unconfirmed"
)

// Header is the first row of every export.
var Header = []string{"transaction_hash", "label", "confirmations", "value", "timestamp"}

// Table is one export's worth of formatted history: the fixed header
// followed by one row per history entry. Built fresh per export cycle
// and discarded after the sinks have written it.
type Table struct {
	Rows [][]string // header included as Rows[0]
}

// Len returns the number of data rows, excluding the header.
func (t *Table) Len() int {
	return len(t.Rows) - 1
}

// WriteCSV writes the table as comma-separated values with a single
// '\n' terminating each row, regardless of platform.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// BuildTable formats a wallet's history into an export table. Formatting
// is total: unknown values become placeholders, never errors. Only the
// history fetch and label lookups can fail.
func BuildTable(ctx context.Context, w wallet.Reader) (*Table, error) {
	history, err := w.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	rows := make([][]string, 0, len(history)+1)
	rows = append(rows, Header)

	rows = append(rows, lo.Map(history, func(entry domain.HistoryEntry, _ int) []string {
		label := ""
		if entry.TxHash != "" {
			var labelErr error
			label, labelErr = w.Label(ctx, entry.TxHash)
			if labelErr != nil {
				// A missing label never blocks the export.
				zerolog.Ctx(ctx).Debug().
					Err(labelErr).
					Str("tx.hash", entry.TxHash).
					Msg("label lookup failed")
				label = ""
			}
		}

		return []string{
			entry.TxHash,
			label,
			fmt.Sprintf("%d", entry.Confirmations),
			formatValue(entry),
			formatTimestamp(entry),
		}
	})...)

	return &Table{Rows: rows}, nil
}

func formatValue(entry domain.HistoryEntry) string {
	if entry.Value == nil {
		return placeholderValue
	}

	return domain.Amount{Satoshi: *entry.Value}.String()
}

func formatTimestamp(entry domain.HistoryEntry) string {
	if !entry.Confirmed() {
		return markUnconfirmed
	}

	if entry.Timestamp == nil {
		return markUnverified
	}

	return time.Unix(*entry.Timestamp, 0).Format(timeLayout)
}

// Filename returns the export filename for the given instant, e.g.
// "2023_07_22__02_13_20.csv". Second precision keeps successive export
// cycles from clobbering each other.
func Filename(now time.Time) string {
	return now.Format(filenameLayout) + ".csv"
}
