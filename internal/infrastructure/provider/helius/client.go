package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"soldeck/internal/application/port"
)

// SPL token program owning standard token accounts.
const tokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

const lamportsPerSol = 1e9

// Client is a minimal JSON-RPC client for the Helius Solana RPC.
type Client struct {
	rpcURL string
	client *http.Client
}

func NewClient(rpcURL string) *Client {
	return &Client{
		rpcURL: rpcURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	payload, err := json.Marshal(rpcRequest{
		Jsonrpc: "2.0",
		ID:      method,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("helius rpc error: %d %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if envelope.Error != nil {
		return fmt.Errorf("helius rpc error: %d %s", envelope.Error.Code, envelope.Error.Message)
	}
	return json.Unmarshal(envelope.Result, result)
}

// NativeBalance returns the wallet's SOL balance in whole SOL.
func (c *Client) NativeBalance(ctx context.Context, pubkey string) (float64, error) {
	var result struct {
		Value int64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{pubkey}, &result); err != nil {
		return 0, err
	}
	return float64(result.Value) / lamportsPerSol, nil
}

// TokenBalances lists the wallet's SPL token balances in UI units.
// Accounts with unparsable data are skipped.
func (c *Client) TokenBalances(ctx context.Context, pubkey string) ([]port.TokenBalance, error) {
	params := []any{
		pubkey,
		map[string]any{"programId": tokenProgram},
		map[string]any{"encoding": "jsonParsed"},
	}
	var result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							Mint        string `json:"mint"`
							TokenAmount struct {
								UIAmount *float64 `json:"uiAmount"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}

	out := make([]port.TokenBalance, 0, len(result.Value))
	for _, acc := range result.Value {
		info := acc.Account.Data.Parsed.Info
		if info.Mint == "" {
			continue
		}
		amount := 0.0
		if info.TokenAmount.UIAmount != nil {
			amount = *info.TokenAmount.UIAmount
		}
		out = append(out, port.TokenBalance{Mint: info.Mint, Amount: amount})
	}
	return out, nil
}
