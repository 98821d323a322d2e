package electrum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// historyResult is the "onchain_history" payload. The daemon reports
// amounts as decimal BTC strings ("bc_value"); heights of zero or below
// mark unconfirmed transactions.
type historyResult struct {
	Transactions []historyTransaction `json:"transactions"`
}

type historyTransaction struct {
	TxID          string `json:"txid"`
	Height        int64  `json:"height"`
	Confirmations int64  `json:"confirmations"`
	Timestamp     *int64 `json:"timestamp"`
	Value         string `json:"bc_value"`
	Balance       string `json:"bc_balance"`
}

// btcToSatoshi converts a decimal BTC string to satoshis. An empty
// string means the daemon could not attribute a value and maps to nil.
func btcToSatoshi(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	btc, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", value, err)
	}

	satoshi := int64(math.Round(btc * 1e8))

	return &satoshi, nil
}
