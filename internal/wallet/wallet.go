package wallet

import (
	"context"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/domain"
)

// Reader is the read-only view of a loaded wallet that the exporter
// needs: the on-chain history and the user's transaction labels.
type Reader interface {
	// History returns the wallet's transaction history, oldest first.
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	// Label returns the user-assigned label for a transaction hash,
	// or an empty string when none is set.
	Label(ctx context.Context, txHash string) (string, error)
}
