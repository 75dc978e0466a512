package service

import (
	"context"
	"encoding/json"
	"fmt"

	"soldeck/internal/application/port"
)

// SwapService proxies quote and swap-build calls to the swap provider.
// The raw provider JSON goes back to the caller untouched so the
// browser can sign the returned transaction.
type SwapService struct {
	client port.SwapClient
}

func NewSwapService(client port.SwapClient) *SwapService {
	return &SwapService{client: client}
}

func (s *SwapService) Quote(ctx context.Context, inputMint, outputMint, amount string) (json.RawMessage, error) {
	q, err := s.client.Quote(ctx, inputMint, outputMint, amount)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	return q, nil
}

// BuildSwap fetches a fresh quote and asks the provider to build the
// matching swap transaction for the user's pubkey.
func (s *SwapService) BuildSwap(ctx context.Context, userPubkey, inputMint, outputMint, amount string) (json.RawMessage, error) {
	q, err := s.client.Quote(ctx, inputMint, outputMint, amount)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	tx, err := s.client.BuildSwap(ctx, userPubkey, q)
	if err != nil {
		return nil, fmt.Errorf("build swap: %w", err)
	}
	return tx, nil
}
