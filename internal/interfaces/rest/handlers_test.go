package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"soldeck/internal/application/port"
	"soldeck/internal/application/service"
	"soldeck/internal/domain"
)

type stubResolver struct {
	prices domain.PriceSet
	meta   domain.TokenMeta

	lastIDs      string
	lastStrategy domain.Strategy
}

func (s *stubResolver) Resolve(ctx context.Context, rawIDs string, strategy domain.Strategy) domain.PriceSet {
	s.lastIDs = rawIDs
	s.lastStrategy = strategy
	return s.prices
}

func (s *stubResolver) TokenMeta(ctx context.Context, mint string) domain.TokenMeta {
	return s.meta
}

type stubBalances struct {
	balances map[string]service.Balance
	err      error
}

func (s *stubBalances) Balances(ctx context.Context, pubkey string) (map[string]service.Balance, error) {
	return s.balances, s.err
}

type stubSwaps struct {
	quote json.RawMessage
	swap  json.RawMessage
	err   error
}

func (s *stubSwaps) Quote(ctx context.Context, inputMint, outputMint, amount string) (json.RawMessage, error) {
	return s.quote, s.err
}

func (s *stubSwaps) BuildSwap(ctx context.Context, userPubkey, inputMint, outputMint, amount string) (json.RawMessage, error) {
	return s.swap, s.err
}

type stubHistory struct {
	points []port.PricePoint
}

func (s *stubHistory) RecordPrice(ctx context.Context, mint, symbol string, price float64, ts int64) error {
	return nil
}

func (s *stubHistory) ListPrices(ctx context.Context, mint string, limit int) ([]port.PricePoint, error) {
	return s.points, nil
}

func (s *stubHistory) Close() error { return nil }

func serve(t *testing.T, deps Deps, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewServer(":0", deps).http.Handler.ServeHTTP(rec, req)
	return rec
}

func TestPingHandler(t *testing.T) {
	rec := serve(t, Deps{}, http.MethodGet, "/api/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body struct {
		OK   bool   `json:"ok"`
		Time string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !body.OK || body.Time == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestPricesHandlerRendersNulls(t *testing.T) {
	one := 1.0
	resolver := &stubResolver{prices: domain.PriceSet{
		"SOL":  nil,
		"USDC": &one,
	}}
	rec := serve(t, Deps{Resolver: resolver}, http.MethodGet, "/api/prices?ids=a,b&source=jup", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resolver.lastIDs != "a,b" || resolver.lastStrategy != domain.StrategyJup {
		t.Errorf("resolver got ids=%q strategy=%q", resolver.lastIDs, resolver.lastStrategy)
	}

	var got map[string]*float64
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if v, ok := got["SOL"]; !ok || v != nil {
		t.Errorf("SOL = %v (present=%v), want present null", v, ok)
	}
	if got["USDC"] == nil || *got["USDC"] != 1.0 {
		t.Errorf("USDC = %v", got["USDC"])
	}
}

func TestPricesHandlerDefaultsToDexStrategy(t *testing.T) {
	resolver := &stubResolver{prices: domain.PriceSet{}}
	serve(t, Deps{Resolver: resolver}, http.MethodGet, "/api/prices", "")
	if resolver.lastStrategy != domain.StrategyDex {
		t.Errorf("strategy = %q, want dex default", resolver.lastStrategy)
	}
}

func TestBalancesHandler(t *testing.T) {
	deps := Deps{Balances: &stubBalances{balances: map[string]service.Balance{
		"SOL": {Balance: 1.5, Display: "Solana", Mint: domain.MintSOL},
	}}}
	rec := serve(t, deps, http.MethodGet, "/api/balances/SomePubkey", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]service.Balance
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if got["SOL"].Balance != 1.5 {
		t.Errorf("SOL = %+v", got["SOL"])
	}
}

func TestBalancesHandlerUpstreamFailure(t *testing.T) {
	deps := Deps{Balances: &stubBalances{err: errors.New("rpc down")}}
	rec := serve(t, deps, http.MethodGet, "/api/balances/SomePubkey", "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestTokenMetaHandlerRequiresMint(t *testing.T) {
	rec := serve(t, Deps{Resolver: &stubResolver{}}, http.MethodGet, "/api/token-meta", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestQuoteHandlerRequiresParams(t *testing.T) {
	rec := serve(t, Deps{Swaps: &stubSwaps{}}, http.MethodGet, "/api/quote?inputMint=a", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestQuoteHandlerPassesThrough(t *testing.T) {
	deps := Deps{Swaps: &stubSwaps{quote: json.RawMessage(`{"outAmount":"995"}`)}}
	rec := serve(t, deps, http.MethodGet, "/api/quote?inputMint=a&outputMint=b&amount=1000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != `{"outAmount":"995"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSwapHandlerValidatesBody(t *testing.T) {
	deps := Deps{Swaps: &stubSwaps{}}

	rec := serve(t, deps, http.MethodPost, "/api/swap", `{"userPubkey":"u"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields: status = %d, want 400", rec.Code)
	}

	rec = serve(t, deps, http.MethodPost, "/api/swap", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", rec.Code)
	}
}

func TestSwapHandlerAcceptsNumericAmount(t *testing.T) {
	deps := Deps{Swaps: &stubSwaps{swap: json.RawMessage(`{"swapTransaction":"x"}`)}}
	body := `{"userPubkey":"u","inputMint":"a","outputMint":"b","amount":1000}`
	rec := serve(t, deps, http.MethodPost, "/api/swap", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"swapTransaction":"x"}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHistoryHandler(t *testing.T) {
	deps := Deps{History: &stubHistory{points: []port.PricePoint{
		{Mint: "mintA", Symbol: "AAA", Price: 10, Ts: 1000},
	}}}
	rec := serve(t, deps, http.MethodGet, "/api/history?mint=mintA", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []port.PricePoint
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(got) != 1 || got[0].Mint != "mintA" {
		t.Errorf("points = %+v", got)
	}
}

func TestHistoryHandlerDisabled(t *testing.T) {
	rec := serve(t, Deps{}, http.MethodGet, "/api/history?mint=mintA", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	rec := serve(t, Deps{}, http.MethodOptions, "/api/prices", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
