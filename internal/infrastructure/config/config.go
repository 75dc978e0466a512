package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"

	"soldeck/internal/domain"
)

type Token struct {
	Mint        string `toml:"mint"`
	Symbol      string `toml:"symbol"`
	Name        string `toml:"name"`
	PairAddress string `toml:"pair_address"`
}

type Config struct {
	Server struct {
		Addr      string `toml:"addr"`
		StaticDir string `toml:"static_dir"`
	} `toml:"server"`

	Providers struct {
		Jupiter struct {
			PriceURL string `toml:"price_url"`
			QuoteURL string `toml:"quote_url"`
		} `toml:"jupiter"`

		Dexscreener struct {
			BaseURL string `toml:"base_url"`
		} `toml:"dexscreener"`

		Helius struct {
			RPCURL string `toml:"rpc_url"`
			APIKey string `toml:"api_key"`
		} `toml:"helius"`
	} `toml:"providers"`

	Registry struct {
		NativeMint string  `toml:"native_mint"`
		StableMint string  `toml:"stable_mint"`
		Tokens     []Token `toml:"tokens"`
	} `toml:"registry"`

	Stream struct {
		IntervalSec int `toml:"interval_sec"`
	} `toml:"stream"`

	Redis struct {
		Enabled    bool   `toml:"enabled"`
		Addr       string `toml:"addr"`
		Password   string `toml:"password"`
		DB         int    `toml:"db"`
		Prefix     string `toml:"prefix"`
		TTLSeconds int    `toml:"ttl_seconds"`
	} `toml:"redis"`

	SQLite struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path"`
	} `toml:"sqlite"`

	Postgres struct {
		Enabled bool   `toml:"enabled"`
		DSN     string `toml:"dsn"`
	} `toml:"postgres"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":4000"
	}
	if cfg.Providers.Helius.RPCURL == "" {
		cfg.Providers.Helius.RPCURL = "https://mainnet.helius-rpc.com/"
	}
	if cfg.Registry.NativeMint == "" {
		cfg.Registry.NativeMint = domain.MintSOL
	}
	if cfg.Registry.StableMint == "" {
		cfg.Registry.StableMint = domain.MintUSDC
	}
	if cfg.Stream.IntervalSec <= 0 {
		cfg.Stream.IntervalSec = 5
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "soldeck"
	}
	if cfg.Redis.TTLSeconds <= 0 {
		cfg.Redis.TTLSeconds = 30
	}
	ensureReferenceTokens(cfg)
}

// ensureReferenceTokens guarantees registry entries for the native and
// stable mints even on a bare config.
func ensureReferenceTokens(cfg *Config) {
	known := make(map[string]struct{}, len(cfg.Registry.Tokens))
	for _, t := range cfg.Registry.Tokens {
		known[t.Mint] = struct{}{}
	}
	if _, ok := known[cfg.Registry.NativeMint]; !ok && cfg.Registry.NativeMint == domain.MintSOL {
		cfg.Registry.Tokens = append(cfg.Registry.Tokens, Token{
			Mint:   domain.MintSOL,
			Symbol: "SOL",
			Name:   "Solana",
		})
	}
	if _, ok := known[cfg.Registry.StableMint]; !ok && cfg.Registry.StableMint == domain.MintUSDC {
		cfg.Registry.Tokens = append(cfg.Registry.Tokens, Token{
			Mint:   domain.MintUSDC,
			Symbol: "USDC",
			Name:   "USD Coin",
		})
	}
}

func validate(cfg *Config) error {
	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr is empty but redis enabled")
	}
	if cfg.SQLite.Enabled && strings.TrimSpace(cfg.SQLite.Path) == "" {
		return errors.New("sqlite.path is empty but sqlite enabled")
	}
	if cfg.Postgres.Enabled && strings.TrimSpace(cfg.Postgres.DSN) == "" {
		return errors.New("postgres.dsn is empty but postgres enabled")
	}
	if cfg.SQLite.Enabled && cfg.Postgres.Enabled {
		return errors.New("sqlite and postgres cannot both be enabled")
	}
	return nil
}

// BuildRegistry converts the registry section into the immutable
// runtime registry.
func (c *Config) BuildRegistry() *domain.Registry {
	tokens := make([]domain.TokenInfo, 0, len(c.Registry.Tokens))
	for _, t := range c.Registry.Tokens {
		tokens = append(tokens, domain.TokenInfo{
			Mint:        t.Mint,
			Symbol:      t.Symbol,
			Name:        t.Name,
			PairAddress: t.PairAddress,
		})
	}
	return domain.NewRegistry(c.Registry.NativeMint, c.Registry.StableMint, tokens)
}

// HeliusURL returns the RPC endpoint with the API key appended when set.
func (c *Config) HeliusURL() string {
	u := c.Providers.Helius.RPCURL
	if c.Providers.Helius.APIKey == "" {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "api-key=" + c.Providers.Helius.APIKey
}
