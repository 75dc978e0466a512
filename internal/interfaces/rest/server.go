package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"soldeck/internal/application/port"
	"soldeck/internal/application/service"
	"soldeck/internal/domain"
)

// PriceResolver is the resolver surface the handlers need.
type PriceResolver interface {
	Resolve(ctx context.Context, rawIDs string, strategy domain.Strategy) domain.PriceSet
	TokenMeta(ctx context.Context, mint string) domain.TokenMeta
}

// BalanceLister reads wallet holdings.
type BalanceLister interface {
	Balances(ctx context.Context, pubkey string) (map[string]service.Balance, error)
}

// SwapBuilder proxies quote and swap-build requests.
type SwapBuilder interface {
	Quote(ctx context.Context, inputMint, outputMint, amount string) (json.RawMessage, error)
	BuildSwap(ctx context.Context, userPubkey, inputMint, outputMint, amount string) (json.RawMessage, error)
}

// Deps collects everything the API server serves from.
type Deps struct {
	Resolver PriceResolver
	Balances BalanceLister
	Swaps    SwapBuilder
	History  port.PriceHistory // nil disables /api/history

	StaticDir      string
	StreamInterval time.Duration
}

// Server is the HTTP front of the wallet backend.
type Server struct {
	deps Deps
	http *http.Server
}

func NewServer(addr string, deps Deps) *Server {
	if deps.StreamInterval <= 0 {
		deps.StreamInterval = 5 * time.Second
	}
	s := &Server{deps: deps}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ping", s.pingHandler).Methods(http.MethodGet)
	api.HandleFunc("/balances/{pubkey}", s.balancesHandler).Methods(http.MethodGet)
	api.HandleFunc("/prices", s.pricesHandler).Methods(http.MethodGet)
	api.HandleFunc("/prices/stream", s.streamHandler).Methods(http.MethodGet)
	api.HandleFunc("/token-meta", s.tokenMetaHandler).Methods(http.MethodGet)
	api.HandleFunc("/quote", s.quoteHandler).Methods(http.MethodGet)
	api.HandleFunc("/swap", s.swapHandler).Methods(http.MethodPost)
	api.HandleFunc("/history", s.historyHandler).Methods(http.MethodGet)

	if deps.StaticDir != "" {
		r.PathPrefix("/").Handler(spaHandler{dir: deps.StaticDir})
	}

	s.http = &http.Server{
		Addr:    addr,
		Handler: corsMiddleware(r),
		// no WriteTimeout: the price stream holds its connection open
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	log.Info().Str("addr", s.http.Addr).Msg("api server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
