package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"soldeck/internal/application/port"
	"soldeck/internal/domain"
)

// ResolverDeps wires the resolver to its upstream clients. Cache and
// History are optional; a nil value disables that feature.
type ResolverDeps struct {
	Registry   *domain.Registry
	Batch      port.BatchPriceClient
	Discovery  port.PairDiscoveryClient
	PairLookup port.PairPriceClient
	Cache      port.PriceCache
	History    port.PriceHistory
}

// Resolver turns a raw mint list into a best-effort USD price per mint.
// It never returns an error to the caller: every upstream failure
// degrades to a nil price for the affected mint only.
type Resolver struct {
	deps ResolverDeps
}

func NewResolver(deps ResolverDeps) *Resolver {
	return &Resolver{deps: deps}
}

// Resolve prices the requested mints plus the native and stable
// reference mints, consulting upstream sources in the order the
// strategy dictates. Result keys are registry symbols when known,
// raw mints otherwise. The stable asset's entry is always a number,
// defaulting to 1.0 when nothing upstream resolved it.
func (r *Resolver) Resolve(ctx context.Context, rawIDs string, strategy domain.Strategy) domain.PriceSet {
	reg := r.deps.Registry
	mints := r.normalize(rawIDs)

	resolved := make(map[string]*float64, len(mints))
	remaining := r.fillFromCache(ctx, mints, resolved)

	switch strategy {
	case domain.StrategyJup:
		r.resolveJup(ctx, remaining, resolved)
	default:
		r.resolveDex(ctx, remaining, resolved)
	}

	r.store(ctx, remaining, resolved)

	out := make(domain.PriceSet, len(mints))
	for _, m := range mints {
		out[reg.DisplayKey(m)] = resolved[m]
	}
	// the stable asset must always carry a number, whatever path ran above
	stableKey := reg.DisplayKey(reg.StableMint())
	if out[stableKey] == nil {
		one := 1.0
		out[stableKey] = &one
	}
	return out
}

// resolveDex prices each mint through pair discovery first, then the
// configured fallback pair, with one last batch attempt for the native
// mint. All per-mint lookups run concurrently.
func (r *Resolver) resolveDex(ctx context.Context, mints []string, resolved map[string]*float64) {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for _, mint := range mints {
		mint := mint
		g.Go(func() error {
			p := r.discoverPrice(ctx, mint)
			if p == nil {
				if pa := r.deps.Registry.PairAddress(mint); pa != "" {
					p = r.pairPrice(ctx, pa)
				}
			}
			if p != nil {
				mu.Lock()
				resolved[mint] = p
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	// last resort for the native mint only
	native := r.deps.Registry.NativeMint()
	if resolved[native] == nil {
		if prices, err := r.deps.Batch.Prices(ctx, []string{native}); err == nil {
			if p, ok := prices[native]; ok {
				resolved[native] = &p
			}
		} else {
			log.Debug().Err(err).Str("mint", native).Msg("batch fallback failed")
		}
	}
}

// resolveJup issues one batch call for every mint, then falls back to
// pair discovery for the mints the batch missed. A numeric batch price
// is authoritative and never revisited.
func (r *Resolver) resolveJup(ctx context.Context, mints []string, resolved map[string]*float64) {
	if len(mints) == 0 {
		return
	}
	if prices, err := r.deps.Batch.Prices(ctx, mints); err == nil {
		for _, m := range mints {
			if p, ok := prices[m]; ok {
				resolved[m] = &p
			}
		}
	} else {
		log.Warn().Err(err).Int("mints", len(mints)).Msg("batch price call failed")
	}

	// snapshot the misses before fanning out; the goroutines write
	// resolved under mu, so it must not be read concurrently
	missed := make([]string, 0, len(mints))
	for _, mint := range mints {
		if resolved[mint] == nil {
			missed = append(missed, mint)
		}
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for _, mint := range missed {
		mint := mint
		g.Go(func() error {
			if p := r.discoverPrice(ctx, mint); p != nil {
				mu.Lock()
				resolved[mint] = p
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
}

// discoverPrice asks the pair-discovery provider for a mint's pairs and
// takes the price of the deepest one. Any failure yields nil.
func (r *Resolver) discoverPrice(ctx context.Context, mint string) *float64 {
	pairs, err := r.deps.Discovery.TokenPairs(ctx, mint)
	if err != nil {
		log.Debug().Err(err).Str("mint", mint).Msg("pair discovery failed")
		return nil
	}
	best := BestPair(pairs)
	if best == nil {
		return nil
	}
	return best.PriceUSD
}

func (r *Resolver) pairPrice(ctx context.Context, pairAddress string) *float64 {
	p, err := r.deps.PairLookup.PairPrice(ctx, pairAddress)
	if err != nil {
		log.Debug().Err(err).Str("pair", pairAddress).Msg("pair lookup failed")
		return nil
	}
	return p
}

// TokenMeta resolves display metadata for an arbitrary mint via the
// deepest trading pair. On any failure it returns the mint with nil
// symbol and name; it never returns an error.
func (r *Resolver) TokenMeta(ctx context.Context, mint string) domain.TokenMeta {
	meta := domain.TokenMeta{Mint: mint}
	pairs, err := r.deps.Discovery.TokenPairs(ctx, mint)
	if err != nil {
		log.Debug().Err(err).Str("mint", mint).Msg("token meta lookup failed")
		return meta
	}
	best := BestPair(pairs)
	if best == nil {
		return meta
	}
	if best.BaseSymbol != "" {
		s := best.BaseSymbol
		meta.Symbol = &s
	}
	if best.BaseName != "" {
		n := best.BaseName
		meta.Name = &n
	}
	return meta
}

// BestPair picks the pair with the highest reported USD liquidity.
// Missing liquidity counts as zero; on a tie the earliest pair wins.
func BestPair(pairs []port.TokenPair) *port.TokenPair {
	if len(pairs) == 0 {
		return nil
	}
	best := &pairs[0]
	bestLiq := pairLiquidity(best)
	for i := 1; i < len(pairs); i++ {
		if l := pairLiquidity(&pairs[i]); l > bestLiq {
			best = &pairs[i]
			bestLiq = l
		}
	}
	return best
}

func pairLiquidity(p *port.TokenPair) float64 {
	if p.LiquidityUSD == nil {
		return 0
	}
	return *p.LiquidityUSD
}

// normalize merges the requested mints with the two reference mints,
// deduped and order-stable.
func (r *Resolver) normalize(rawIDs string) []string {
	reg := r.deps.Registry
	mints := domain.ParseMints(rawIDs)
	seen := make(map[string]struct{}, len(mints)+2)
	for _, m := range mints {
		seen[m] = struct{}{}
	}
	for _, m := range []string{reg.NativeMint(), reg.StableMint()} {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			mints = append(mints, m)
		}
	}
	return mints
}

// fillFromCache resolves what it can from the cache and returns the
// mints that still need an upstream lookup.
func (r *Resolver) fillFromCache(ctx context.Context, mints []string, resolved map[string]*float64) []string {
	if r.deps.Cache == nil {
		return mints
	}
	remaining := make([]string, 0, len(mints))
	for _, m := range mints {
		p, ok, err := r.deps.Cache.GetPrice(ctx, m)
		if err != nil {
			log.Debug().Err(err).Str("mint", m).Msg("cache read failed")
		}
		if ok {
			resolved[m] = &p
			continue
		}
		remaining = append(remaining, m)
	}
	return remaining
}

// store writes freshly fetched prices to the cache and history; cache
// hits are not re-recorded. Both writes are best-effort: a failure
// never affects the response.
func (r *Resolver) store(ctx context.Context, fetched []string, resolved map[string]*float64) {
	if r.deps.Cache == nil && r.deps.History == nil {
		return
	}
	ts := time.Now().UnixMilli()
	for _, mint := range fetched {
		p := resolved[mint]
		if p == nil {
			continue
		}
		if r.deps.Cache != nil {
			if err := r.deps.Cache.SetPrice(ctx, mint, *p); err != nil {
				log.Debug().Err(err).Str("mint", mint).Msg("cache write failed")
			}
		}
		if r.deps.History != nil {
			symbol := r.deps.Registry.DisplayKey(mint)
			if err := r.deps.History.RecordPrice(ctx, mint, symbol, *p, ts); err != nil {
				log.Debug().Err(err).Str("mint", mint).Msg("history write failed")
			}
		}
	}
}
