package electrum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	resty "resty.dev/v3"

	"github.com/codeleta/AutoExportElectrumPlugin/internal/domain"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/wallet"
)

const defaultTimeout = 30 * time.Second

var _ wallet.Reader = (*Client)(nil)

// Client reads wallet history and labels from an Electrum daemon over
// its JSON-RPC interface.
type Client struct {
	resty  *resty.Client
	nextID atomic.Int64
}

type Option func(*Client)

func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	c := &Client{}
	c.resty = resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		AddResponseMiddleware(func(_ *resty.Client, r *resty.Response) error {
			req := r.Request
			zerolog.Ctx(req.Context()).Debug().
				Str("rpc.url", req.URL).
				Err(r.Err).
				Int("rpc.status_code", r.StatusCode()).
				Msg("performed wallet RPC request")
			return nil
		})

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(c)
	}

	return c
}

// WithBasicAuth sets the daemon's RPC credentials.
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.resty.SetBasicAuth(user, password)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.resty.SetTimeout(timeout)
	}
}

// History fetches the wallet's on-chain history via "onchain_history".
func (c *Client) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	var result historyResult
	if err := c.call(ctx, "onchain_history", map[string]any{}, &result); err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		entry := domain.HistoryEntry{
			TxHash:        tx.TxID,
			Height:        tx.Height,
			Confirmations: tx.Confirmations,
			Timestamp:     tx.Timestamp,
		}

		value, err := btcToSatoshi(tx.Value)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.TxID, err)
		}
		entry.Value = value

		balance, err := btcToSatoshi(tx.Balance)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.TxID, err)
		}
		entry.Balance = balance

		entries = append(entries, entry)
	}

	return entries, nil
}

// Label fetches the user-assigned label for a transaction via
// "getlabel". Unlabelled transactions yield an empty string.
func (c *Client) Label(ctx context.Context, txHash string) (string, error) {
	var label string
	if err := c.call(ctx, "getlabel", map[string]any{"key": txHash}, &label); err != nil {
		return "", err
	}

	return label, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	var rpcResp rpcResponse

	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(rpcRequest{
			JSONRPC: "2.0",
			ID:      c.nextID.Add(1),
			Method:  method,
			Params:  params,
		}).
		SetResult(&rpcResp).
		Post("/")
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	if resp.IsError() {
		return fmt.Errorf("%s: daemon returned status %d: %s", method, resp.StatusCode(), resp.String())
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %s (code %d)", method, rpcResp.Error.Message, rpcResp.Error.Code)
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}

	return nil
}
