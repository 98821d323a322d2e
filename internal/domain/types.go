package domain

import (
	"fmt"

	"github.com/Rhymond/go-money"
)

const currencyBTC = "BTC"

func init() {
	// go-money only ships ISO 4217 currencies; register bitcoin with
	// satoshi precision so Amount can reuse its fraction handling.
	money.AddCurrency(currencyBTC, "BTC", "1 $", ".", ",", 8)
}

// Amount is a bitcoin value in satoshis, the chain's smallest unit.
type Amount struct {
	Satoshi int64
}

// ToBTC converts the Amount from satoshis to whole bitcoin.
// Example:
//
//	a := Amount{Satoshi: 5000}
//	btc := a.ToBTC() // Returns 0.00005
func (a Amount) ToBTC() float64 {
	return float64(a.Satoshi) / 1e8
}

// String returns the amount as a decimal bitcoin string with full
// satoshi precision.
//
// Example:
//
//	fmt.Println(Amount{Satoshi: 5000})  // Outputs: "0.00005000"
//	fmt.Println(Amount{Satoshi: -5000}) // Outputs: "-0.00005000"
func (a Amount) String() string {
	currency := money.GetCurrency(currencyBTC)

	return fmt.Sprintf("%.*f", currency.Fraction, a.ToBTC())
}

// HistoryEntry is one row of a wallet's on-chain history, snapshotted at
// export time. Reserved rows may carry an empty TxHash.
type HistoryEntry struct {
	TxHash        string
	Height        int64
	Confirmations int64
	Timestamp     *int64 // unix seconds; nil until the header is verified
	Value         *int64 // satoshis; nil when the wallet cannot attribute a delta
	Balance       *int64 // running balance in satoshis
}

// Confirmed reports whether the entry has been mined into a block.
func (h HistoryEntry) Confirmed() bool {
	return h.Height > 0
}
