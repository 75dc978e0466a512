package domain

import "strings"

// Well-known mainnet mints.
const (
	MintSOL  = "So11111111111111111111111111111111111111112"
	MintUSDC = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// TokenInfo describes one registry entry for a known mint.
type TokenInfo struct {
	Mint        string
	Symbol      string
	Name        string
	PairAddress string // fallback pair for price lookup, may be empty
}

// Registry maps mints to display metadata. Built once at startup,
// read-only afterwards, so concurrent reads need no locking.
type Registry struct {
	native string
	stable string
	byMint map[string]TokenInfo
}

func NewRegistry(native, stable string, tokens []TokenInfo) *Registry {
	byMint := make(map[string]TokenInfo, len(tokens)+2)
	for _, t := range tokens {
		if strings.TrimSpace(t.Mint) == "" {
			continue
		}
		if _, ok := byMint[t.Mint]; ok {
			continue
		}
		byMint[t.Mint] = t
	}
	// the two reference mints must always resolve to an entry
	for _, m := range []string{native, stable} {
		if _, ok := byMint[m]; !ok {
			byMint[m] = TokenInfo{Mint: m, Symbol: m, Name: m}
		}
	}
	return &Registry{native: native, stable: stable, byMint: byMint}
}

func (r *Registry) NativeMint() string { return r.native }
func (r *Registry) StableMint() string { return r.stable }

func (r *Registry) Lookup(mint string) (TokenInfo, bool) {
	t, ok := r.byMint[mint]
	return t, ok
}

// DisplayKey returns the symbol a mint is presented under: the registry
// symbol when the mint is known, otherwise the raw mint.
func (r *Registry) DisplayKey(mint string) string {
	if t, ok := r.byMint[mint]; ok && t.Symbol != "" {
		return t.Symbol
	}
	return mint
}

// PairAddress returns the configured fallback pair for a mint, or "".
func (r *Registry) PairAddress(mint string) string {
	if t, ok := r.byMint[mint]; ok {
		return t.PairAddress
	}
	return ""
}

// ParseMints splits a comma-separated mint list, trims entries, drops
// empties and dedupes while preserving first-seen order.
func ParseMints(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		m := strings.TrimSpace(p)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
