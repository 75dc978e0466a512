package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Jupiter price and quote APIs.
type Client struct {
	priceURL string
	quoteURL string
	client   *http.Client
}

func NewClient(priceURL, quoteURL string) *Client {
	if priceURL == "" {
		priceURL = "https://price.jup.ag"
	}
	if quoteURL == "" {
		quoteURL = "https://quote-api.jup.ag"
	}
	return &Client{
		priceURL: priceURL,
		quoteURL: quoteURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type priceResp struct {
	Data map[string]struct {
		Price *float64 `json:"price"`
	} `json:"data"`
}

// Prices fetches USD prices for the given mints in one batch call.
// Mints the API does not know are simply absent from the result.
func (c *Client) Prices(ctx context.Context, mints []string) (map[string]float64, error) {
	u := fmt.Sprintf("%s/v6/price?ids=%s", c.priceURL, url.QueryEscape(strings.Join(mints, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("jupiter api error: %d %s", resp.StatusCode, string(body))
	}

	var pr priceResp
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(pr.Data))
	for id, d := range pr.Data {
		if d.Price != nil {
			out[id] = *d.Price
		}
	}
	return out, nil
}

// Quote fetches a swap quote and returns the provider JSON verbatim.
func (c *Client) Quote(ctx context.Context, inputMint, outputMint, amount string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/v6/quote?inputMint=%s&outputMint=%s&amount=%s&slippageBps=50",
		c.quoteURL, url.QueryEscape(inputMint), url.QueryEscape(outputMint), url.QueryEscape(amount))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter quote error: %d %s", resp.StatusCode, string(body))
	}
	return body, nil
}

type swapReq struct {
	QuoteResponse           json.RawMessage `json:"quoteResponse"`
	UserPublicKey           string          `json:"userPublicKey"`
	WrapAndUnwrapSol        bool            `json:"wrapAndUnwrapSol"`
	DynamicComputeUnitLimit bool            `json:"dynamicComputeUnitLimit"`
}

// BuildSwap posts a quote back to the provider and returns the built
// swap transaction JSON for client-side signing.
func (c *Client) BuildSwap(ctx context.Context, userPubkey string, quote json.RawMessage) (json.RawMessage, error) {
	payload, err := json.Marshal(swapReq{
		QuoteResponse:           quote,
		UserPublicKey:           userPubkey,
		WrapAndUnwrapSol:        true,
		DynamicComputeUnitLimit: true,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.quoteURL+"/v6/swap", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter swap error: %d %s", resp.StatusCode, string(body))
	}
	return body, nil
}
