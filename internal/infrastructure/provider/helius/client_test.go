package helius

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func rpcServer(t *testing.T, handlers map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Jsonrpc string `json:"jsonrpc"`
			Method  string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad rpc request: %v", err)
		}
		if req.Jsonrpc != "2.0" {
			t.Errorf("jsonrpc = %q", req.Jsonrpc)
		}
		resp, ok := handlers[req.Method]
		if !ok {
			t.Fatalf("unexpected method %q", req.Method)
		}
		_, _ = w.Write([]byte(resp))
	}))
}

func TestNativeBalanceConvertsLamports(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getBalance": `{"jsonrpc":"2.0","result":{"value":2500000000}}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.NativeBalance(context.Background(), "SomePubkey")
	if err != nil {
		t.Fatalf("NativeBalance failed: %v", err)
	}
	if got != 2.5 {
		t.Errorf("balance = %v, want 2.5", got)
	}
}

func TestTokenBalancesParsesAccounts(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getTokenAccountsByOwner": `{"jsonrpc":"2.0","result":{"value":[
			{"account":{"data":{"parsed":{"info":{
				"mint":"mintA","tokenAmount":{"uiAmount":42.5}}}}}},
			{"account":{"data":{"parsed":{"info":{
				"mint":"mintB","tokenAmount":{}}}}}},
			{"account":{"data":{"parsed":{"info":{}}}}}
		]}}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.TokenBalances(context.Background(), "SomePubkey")
	if err != nil {
		t.Fatalf("TokenBalances failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d balances, want 2 (mintless account skipped)", len(got))
	}
	if got[0].Mint != "mintA" || got[0].Amount != 42.5 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Mint != "mintB" || got[1].Amount != 0 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestCallSurfacesRPCError(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getBalance": `{"jsonrpc":"2.0","error":{"code":-32602,"message":"invalid pubkey"}}`,
	})
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.NativeBalance(context.Background(), "bogus"); err == nil {
		t.Fatal("expected rpc error")
	}
}

func TestCallErrorsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.NativeBalance(context.Background(), "SomePubkey"); err == nil {
		t.Fatal("expected error on 401")
	}
}
