package port

import "context"

// TokenBalance is one SPL token account balance in UI units.
type TokenBalance struct {
	Mint   string
	Amount float64
}

// ChainClient reads account state from the chain RPC.
type ChainClient interface {
	TokenBalances(ctx context.Context, pubkey string) ([]TokenBalance, error)
	NativeBalance(ctx context.Context, pubkey string) (float64, error)
}
