package service

import (
	"context"
	"fmt"

	"soldeck/internal/application/port"
	"soldeck/internal/domain"
)

// Balance is one wallet holding in UI units.
type Balance struct {
	Balance float64 `json:"balance"`
	Display string  `json:"display"`
	Mint    string  `json:"mint"`
}

// BalanceService reads wallet holdings from the chain RPC and enriches
// them with registry metadata.
type BalanceService struct {
	chain port.ChainClient
	reg   *domain.Registry
}

func NewBalanceService(chain port.ChainClient, reg *domain.Registry) *BalanceService {
	return &BalanceService{chain: chain, reg: reg}
}

// Balances returns the token holdings of a wallet keyed by display
// symbol, with the native balance always appended. Unlike price
// resolution, RPC failures surface as errors: a wallet view with
// missing holdings would be misleading.
func (s *BalanceService) Balances(ctx context.Context, pubkey string) (map[string]Balance, error) {
	accounts, err := s.chain.TokenBalances(ctx, pubkey)
	if err != nil {
		return nil, fmt.Errorf("token accounts: %w", err)
	}

	out := make(map[string]Balance, len(accounts)+1)
	for _, a := range accounts {
		display := a.Mint
		if t, ok := s.reg.Lookup(a.Mint); ok && t.Name != "" {
			display = t.Name
		}
		out[s.reg.DisplayKey(a.Mint)] = Balance{
			Balance: a.Amount,
			Display: display,
			Mint:    a.Mint,
		}
	}

	native, err := s.chain.NativeBalance(ctx, pubkey)
	if err != nil {
		return nil, fmt.Errorf("native balance: %w", err)
	}
	nativeMint := s.reg.NativeMint()
	display := nativeMint
	if t, ok := s.reg.Lookup(nativeMint); ok && t.Name != "" {
		display = t.Name
	}
	out[s.reg.DisplayKey(nativeMint)] = Balance{
		Balance: native,
		Display: display,
		Mint:    nativeMint,
	}
	return out, nil
}
