package symbol

import (
	"errors"
	"fmt"
)

// ErrUnknownSymbol is returned when a ticker is not part of the fixed set.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Sector represents a market sector.
type Sector string

const (
	SectorTech          Sector = "Tech"
	SectorCommunication Sector = "Communication"
	SectorConsumer      Sector = "Consumer"
	SectorSemis         Sector = "Semiconductors"
)

// Default is the ticker selected when the dashboard starts.
const Default = "AAPL"

// Symbol holds metadata for a selectable ticker.
type Symbol struct {
	Ticker string
	Name   string
	Sector Sector
}

// AllSymbols returns the selectable tickers in display order.
func AllSymbols() []Symbol {
	return []Symbol{
		{"AAPL", "Apple Inc", SectorTech},
		{"GOOGL", "Alphabet Inc", SectorCommunication},
		{"MSFT", "Microsoft Corp", SectorTech},
		{"AMZN", "Amazon.com Inc", SectorConsumer},
		{"META", "Meta Platforms Inc", SectorCommunication},
		{"TSLA", "Tesla Inc", SectorConsumer},
		{"NVDA", "NVIDIA Corp", SectorSemis},
		{"AMD", "Advanced Micro Devices", SectorSemis},
	}
}

// Tickers returns just the ticker strings in display order.
func Tickers() []string {
	syms := AllSymbols()
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Ticker
	}
	return out
}

// ByTicker returns a map from ticker to symbol for quick lookups.
func ByTicker() map[string]*Symbol {
	syms := AllSymbols()
	m := make(map[string]*Symbol, len(syms))
	for i := range syms {
		m[syms[i].Ticker] = &syms[i]
	}
	return m
}

// Lookup finds a symbol by ticker.
func Lookup(ticker string) (Symbol, error) {
	for _, s := range AllSymbols() {
		if s.Ticker == ticker {
			return s, nil
		}
	}
	return Symbol{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, ticker)
}

// Valid reports whether ticker is one of the selectable symbols.
func Valid(ticker string) bool {
	_, err := Lookup(ticker)
	return err == nil
}
