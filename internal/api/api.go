package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/symbol"
)

// ClientCounter reports how many live viewers are connected.
type ClientCounter interface {
	ClientCount() int
}

// Server provides REST API endpoints for the dashboard.
type Server struct {
	dash    *dashboard.Dashboard
	clients ClientCounter
	syms    []symbol.Symbol
	byTick  map[string]*symbol.Symbol
	startAt time.Time
}

// NewServer creates a new API server. clients may be nil.
func NewServer(d *dashboard.Dashboard, clients ClientCounter) *Server {
	return &Server{
		dash:    d,
		clients: clients,
		syms:    symbol.AllSymbols(),
		byTick:  symbol.ByTicker(),
		startAt: time.Now(),
	}
}

// Register attaches API routes to the given router.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/api/symbols", s.handleSymbols).Methods(http.MethodGet)
	r.HandleFunc("/api/symbols/{ticker}", s.handleSymbolDetail).Methods(http.MethodGet)
	r.HandleFunc("/api/symbol", s.handleSelect).Methods(http.MethodPut)
	r.HandleFunc("/api/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/api/window", s.handleWindow).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// resolveTicker looks up a symbol by ticker, writing a 404 if not found.
// Returns nil if the symbol was not found (error already written).
func (s *Server) resolveTicker(w http.ResponseWriter, ticker string) *symbol.Symbol {
	sym, ok := s.byTick[ticker]
	if !ok {
		writeError(w, http.StatusNotFound, "symbol not found: "+ticker)
		return nil
	}
	return sym
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
