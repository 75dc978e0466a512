package port

import (
	"context"
	"encoding/json"
)

// SwapClient proxies the quote/swap provider. Responses are passed
// through verbatim for client-side signing.
type SwapClient interface {
	Quote(ctx context.Context, inputMint, outputMint, amount string) (json.RawMessage, error)
	BuildSwap(ctx context.Context, userPubkey string, quote json.RawMessage) (json.RawMessage, error)
}
