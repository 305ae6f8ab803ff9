// Package view turns dashboard snapshots into what the charts and text
// fields display. Chart drawing itself is left to the browser (Chart.js) or
// the terminal renderer.
package view

import (
	"strconv"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/symbol"
)

// Trend is the decorative direction marker next to the price.
type Trend string

const (
	TrendFlat Trend = "flat"
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Point is one chart datum keyed on the sample timestamp.
type Point struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Option is one entry of the symbol selector.
type Option struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Model is the display state for one snapshot.
type Model struct {
	Symbol  string   `json:"symbol"`
	Options []Option `json:"options"`

	// Price is "0" for an empty window.
	Price      string `json:"price"`
	PriceLabel string `json:"priceLabel"`
	Trend      Trend  `json:"trend"`

	PriceSeries  []Point `json:"priceSeries"`
	VolumeSeries []Point `json:"volumeSeries"`

	SMA string `json:"sma"`
	EMA string `json:"ema"`
	RSI string `json:"rsi"`

	SentimentScore   string `json:"sentimentScore"`
	Emotion          string `json:"emotion"`
	SearchVolume     string `json:"searchVolume"`
	SocialEngagement string `json:"socialEngagement"`
	SentimentVolume  string `json:"sentimentVolume"`

	EarningsSurprise string `json:"earningsSurprise"`
	VIX              string `json:"vix"`
	MAAlert          string `json:"maAlert,omitempty"`
}

// Build derives the display model from s. Metric text stays empty until the
// first tick.
func Build(s dashboard.Snapshot) Model {
	m := Model{
		Symbol:       s.Symbol,
		Options:      options(s.Symbol),
		Price:        "0",
		Trend:        TrendFlat,
		PriceSeries:  make([]Point, len(s.MarketData)),
		VolumeSeries: make([]Point, len(s.MarketData)),
	}

	for i, smp := range s.MarketData {
		m.PriceSeries[i] = Point{Timestamp: smp.Timestamp, Value: smp.Price}
		m.VolumeSeries[i] = Point{Timestamp: smp.Timestamp, Value: smp.Volume}
	}

	if price, ok := s.LastPrice(); ok {
		m.Price = strconv.FormatFloat(price, 'f', 2, 64)
	}
	m.PriceLabel = "$" + m.Price

	if n := len(s.MarketData); n >= 2 {
		prev, last := s.MarketData[n-2].Price, s.MarketData[n-1].Price
		switch {
		case last > prev:
			m.Trend = TrendUp
		case last < prev:
			m.Trend = TrendDown
		}
	}

	if t := s.Technical; t != nil {
		m.SMA, m.EMA, m.RSI = t.SMA, t.EMA, t.RSI
	}
	if st := s.Sentiment; st != nil {
		m.SentimentScore = st.SentimentScore
		m.Emotion = st.EmotionClass
		m.SearchVolume = strconv.Itoa(st.SearchVolume)
		m.SocialEngagement = strconv.Itoa(st.SocialEngagement)
		m.SentimentVolume = strconv.Itoa(st.SentimentVolume)
	}
	if v := s.Volatility; v != nil {
		m.EarningsSurprise = v.EarningsSurprise + "%"
		m.VIX = v.VIXIndex
		if v.HasMANews() {
			m.MAAlert = v.MANews
		}
	}

	return m
}

func options(selected string) []Option {
	syms := symbol.AllSymbols()
	out := make([]Option, len(syms))
	for i, s := range syms {
		out[i] = Option{Ticker: s.Ticker, Name: s.Name, Selected: s.Ticker == selected}
	}
	return out
}
