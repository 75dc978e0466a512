package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"soldeck/internal/domain"
)

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) pricesHandler(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query().Get("ids")
	strategy := domain.ParseStrategy(r.URL.Query().Get("source"))
	prices := s.deps.Resolver.Resolve(r.Context(), ids, strategy)
	writeJSON(w, http.StatusOK, prices)
}

func (s *Server) balancesHandler(w http.ResponseWriter, r *http.Request) {
	pubkey := strings.TrimSpace(mux.Vars(r)["pubkey"])
	if pubkey == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "pubkey required"})
		return
	}
	balances, err := s.deps.Balances.Balances(r.Context(), pubkey)
	if err != nil {
		log.Error().Err(err).Str("pubkey", pubkey).Msg("balance fetch failed")
		writeJSON(w, http.StatusBadGateway, errResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) tokenMetaHandler(w http.ResponseWriter, r *http.Request) {
	mint := strings.TrimSpace(r.URL.Query().Get("mint"))
	if mint == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "mint required"})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Resolver.TokenMeta(r.Context(), mint))
}

func (s *Server) quoteHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inputMint := q.Get("inputMint")
	outputMint := q.Get("outputMint")
	amount := q.Get("amount")
	if inputMint == "" || outputMint == "" || amount == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "inputMint, outputMint and amount are required"})
		return
	}
	raw, err := s.deps.Swaps.Quote(r.Context(), inputMint, outputMint, amount)
	if err != nil {
		log.Error().Err(err).Msg("quote failed")
		writeJSON(w, http.StatusBadGateway, errResp{Error: err.Error()})
		return
	}
	writeRaw(w, raw)
}

type swapRequest struct {
	UserPubkey string      `json:"userPubkey"`
	InputMint  string      `json:"inputMint"`
	OutputMint string      `json:"outputMint"`
	Amount     json.Number `json:"amount"`
}

func (s *Server) swapHandler(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "invalid json body"})
		return
	}
	if req.UserPubkey == "" || req.InputMint == "" || req.OutputMint == "" || req.Amount.String() == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "userPubkey, inputMint, outputMint, amount required"})
		return
	}
	raw, err := s.deps.Swaps.BuildSwap(r.Context(), req.UserPubkey, req.InputMint, req.OutputMint, req.Amount.String())
	if err != nil {
		log.Error().Err(err).Msg("swap build failed")
		writeJSON(w, http.StatusBadGateway, errResp{Error: err.Error()})
		return
	}
	writeRaw(w, raw)
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if s.deps.History == nil {
		writeJSON(w, http.StatusNotFound, errResp{Error: "history disabled"})
		return
	}
	mint := strings.TrimSpace(r.URL.Query().Get("mint"))
	if mint == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Error: "mint required"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	points, err := s.deps.History.ListPrices(r.Context(), mint, limit)
	if err != nil {
		log.Error().Err(err).Str("mint", mint).Msg("history read failed")
		writeJSON(w, http.StatusInternalServerError, errResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, points)
}
