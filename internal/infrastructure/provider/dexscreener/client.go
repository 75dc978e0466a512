package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"soldeck/internal/application/port"
)

// Client talks to the DexScreener pair-discovery API.
type Client struct {
	baseURL string
	chain   string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.dexscreener.com"
	}
	return &Client{
		baseURL: baseURL,
		chain:   "solana",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// pairRecord mirrors the subset of the DexScreener pair object this
// service reads. priceUsd arrives as a string, liquidity.usd as a
// number; both are frequently missing.
type pairRecord struct {
	PairAddress string `json:"pairAddress"`
	PriceUSD    string `json:"priceUsd"`
	Liquidity   *struct {
		USD *float64 `json:"usd"`
	} `json:"liquidity"`
	BaseToken struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"baseToken"`
}

type pairsResp struct {
	Pairs []pairRecord `json:"pairs"`
	Pair  *pairRecord  `json:"pair"`
}

// TokenPairs lists the trading pairs known for a mint.
func (c *Client) TokenPairs(ctx context.Context, mint string) ([]port.TokenPair, error) {
	var pr pairsResp
	if err := c.get(ctx, fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, mint), &pr); err != nil {
		return nil, err
	}
	out := make([]port.TokenPair, 0, len(pr.Pairs))
	for _, rec := range pr.Pairs {
		out = append(out, toTokenPair(rec))
	}
	return out, nil
}

// PairPrice resolves the USD price of one pair by address. The API
// returns either a single pair object or a one-element list.
func (c *Client) PairPrice(ctx context.Context, pairAddress string) (*float64, error) {
	var pr pairsResp
	if err := c.get(ctx, fmt.Sprintf("%s/latest/dex/pairs/%s/%s", c.baseURL, c.chain, pairAddress), &pr); err != nil {
		return nil, err
	}
	var rec *pairRecord
	switch {
	case len(pr.Pairs) > 0:
		rec = &pr.Pairs[0]
	case pr.Pair != nil:
		rec = pr.Pair
	default:
		return nil, nil
	}
	return parsePrice(rec.PriceUSD), nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dexscreener api error: %d %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func toTokenPair(rec pairRecord) port.TokenPair {
	p := port.TokenPair{
		PairAddress: rec.PairAddress,
		PriceUSD:    parsePrice(rec.PriceUSD),
		BaseSymbol:  rec.BaseToken.Symbol,
		BaseName:    rec.BaseToken.Name,
	}
	if rec.Liquidity != nil {
		p.LiquidityUSD = rec.Liquidity.USD
	}
	return p
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}
