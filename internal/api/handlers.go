package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/engine"
	"github.com/ndrandal/stock-dashboard/internal/symbol"
	"github.com/ndrandal/stock-dashboard/internal/view"
)

type symbolInfo struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Selected bool   `json:"selected"`
}

func (s *Server) symbolInfo(sym symbol.Symbol, selected string) symbolInfo {
	return symbolInfo{
		Ticker:   sym.Ticker,
		Name:     sym.Name,
		Sector:   string(sym.Sector),
		Selected: sym.Ticker == selected,
	}
}

// handleSymbols returns every selectable symbol in display order.
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	selected := s.dash.Symbol()
	out := make([]symbolInfo, 0, len(s.syms))
	for _, sym := range s.syms {
		out = append(out, s.symbolInfo(sym, selected))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSymbolDetail returns a single symbol.
func (s *Server) handleSymbolDetail(w http.ResponseWriter, r *http.Request) {
	sym := s.resolveTicker(w, strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"])))
	if sym == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.symbolInfo(*sym, s.dash.Symbol()))
}

type selectRequest struct {
	Symbol string `json:"symbol"`
}

type selectResponse struct {
	Symbol   string `json:"symbol"`
	Previous string `json:"previous"`
	Changed  bool   `json:"changed"`
}

// handleSelect changes the selected symbol.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	prev := s.dash.Symbol()
	if err := s.dash.SelectSymbol(ticker); err != nil {
		if errors.Is(err, symbol.ErrUnknownSymbol) {
			writeError(w, http.StatusNotFound, "symbol not found: "+ticker)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().Str("symbol", ticker).Str("previous", prev).Msg("symbol selected via api")
	writeJSON(w, http.StatusOK, selectResponse{
		Symbol:   ticker,
		Previous: prev,
		Changed:  prev != ticker,
	})
}

type dashboardResponse struct {
	Snapshot dashboard.Snapshot `json:"snapshot"`
	View     view.Model         `json:"view"`
}

// handleDashboard returns the current snapshot and its display model.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.dash.Snapshot()
	writeJSON(w, http.StatusOK, dashboardResponse{Snapshot: snap, View: view.Build(snap)})
}

type windowResponse struct {
	Symbol  string          `json:"symbol"`
	Samples []engine.Sample `json:"samples"`
}

// handleWindow returns the rolling window, oldest first. ?limit=N keeps only
// the newest N samples.
func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	snap := s.dash.Snapshot()
	samples := snap.MarketData
	if n := parseIntParam(r, "limit", 0); n > 0 && n < len(samples) {
		samples = samples[len(samples)-n:]
	}
	writeJSON(w, http.StatusOK, windowResponse{Symbol: snap.Symbol, Samples: samples})
}

type statsResponse struct {
	Uptime       string     `json:"uptime"`
	Clients      int        `json:"clients"`
	Symbols      int        `json:"symbols"`
	Symbol       string     `json:"symbol"`
	Ticks        uint64     `json:"ticks"`
	WindowLength int        `json:"windowLength"`
	LastTick     *time.Time `json:"lastTick,omitempty"`
}

// handleStats returns runtime statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.dash.Snapshot()

	var clients int
	if s.clients != nil {
		clients = s.clients.ClientCount()
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Uptime:       time.Since(s.startAt).Truncate(time.Second).String(),
		Clients:      clients,
		Symbols:      len(s.syms),
		Symbol:       snap.Symbol,
		Ticks:        snap.Ticks,
		WindowLength: len(snap.MarketData),
		LastTick:     snap.UpdatedAt,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"symbol": s.dash.Symbol(),
	})
}
