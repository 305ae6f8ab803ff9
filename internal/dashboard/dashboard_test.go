package dashboard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndrandal/stock-dashboard/internal/engine"
	"github.com/ndrandal/stock-dashboard/internal/symbol"
)

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	d, err := New(engine.NewRNG(42), symbol.Default)
	require.NoError(t, err)
	return d
}

func TestNewRejectsUnknownSymbol(t *testing.T) {
	_, err := New(engine.NewRNG(1), "ZZZZ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, symbol.ErrUnknownSymbol))
}

func TestInitialSnapshotEmpty(t *testing.T) {
	d := newTestDashboard(t)
	s := d.Snapshot()

	assert.Equal(t, "AAPL", s.Symbol)
	assert.Empty(t, s.MarketData)
	assert.Nil(t, s.Technical)
	assert.Nil(t, s.Sentiment)
	assert.Nil(t, s.Volatility)
	assert.Nil(t, s.UpdatedAt)

	_, ok := s.LastPrice()
	assert.False(t, ok, "empty window has no last price")
}

func TestTickPopulatesEverything(t *testing.T) {
	d := newTestDashboard(t)
	s := d.Tick()

	require.Len(t, s.MarketData, 1)
	require.NotNil(t, s.Technical)
	require.NotNil(t, s.Sentiment)
	require.NotNil(t, s.Volatility)
	require.NotNil(t, s.UpdatedAt)
	assert.Equal(t, uint64(1), s.Ticks)

	assert.NotEmpty(t, s.Technical.SMA)
	assert.NotEmpty(t, s.Technical.EMA)
	assert.NotEmpty(t, s.Technical.RSI)
	assert.NotEmpty(t, s.Sentiment.SentimentScore)
	assert.NotEmpty(t, s.Sentiment.EmotionClass)
	assert.NotEmpty(t, s.Volatility.EarningsSurprise)
	assert.NotEmpty(t, s.Volatility.VIXIndex)
}

func TestTickUsesClock(t *testing.T) {
	d, err := New(constSource(0.5), "MSFT")
	require.NoError(t, err)
	at := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return at }

	s := d.Tick()
	assert.Equal(t, "2026-10-17T14:00:00.000Z", s.MarketData[0].Timestamp)
	assert.Equal(t, 250.0, s.MarketData[0].Price)
	assert.Equal(t, at, *s.UpdatedAt)

	price, ok := s.LastPrice()
	assert.True(t, ok)
	assert.Equal(t, 250.0, price)
}

func TestWindowBoundedAcrossTicks(t *testing.T) {
	d := newTestDashboard(t)
	for i := 0; i < 100; i++ {
		s := d.Tick()
		if len(s.MarketData) > engine.WindowSize {
			t.Fatalf("window length %d after tick %d", len(s.MarketData), i+1)
		}
	}
	assert.Equal(t, engine.WindowSize, d.WindowLen())
	assert.Equal(t, uint64(100), d.Ticks())
}

func TestThirtySecondTickDropsOldest(t *testing.T) {
	d := newTestDashboard(t)
	for i := 0; i < engine.WindowSize; i++ {
		d.Tick()
	}
	before := d.Snapshot().MarketData
	require.Len(t, before, 31)

	after := d.Tick().MarketData
	require.Len(t, after, 31)
	assert.Equal(t, before[1], after[0])
	assert.Equal(t, before[1:], after[:30])
}

func TestMetricsReplacedWholesale(t *testing.T) {
	d := newTestDashboard(t)
	first := d.Tick()
	second := d.Tick()

	// each tick hands out its own copies
	assert.NotSame(t, first.Technical, second.Technical)
	assert.NotSame(t, first.Sentiment, second.Sentiment)
	assert.NotSame(t, first.Volatility, second.Volatility)
}

func TestSnapshotIsolation(t *testing.T) {
	d := newTestDashboard(t)
	d.Tick()
	s := d.Snapshot()
	s.MarketData[0].Price = -1
	s.Technical.SMA = "bogus"

	fresh := d.Snapshot()
	assert.NotEqual(t, -1.0, fresh.MarketData[0].Price)
	assert.NotEqual(t, "bogus", fresh.Technical.SMA)
}

func TestSelectSymbolKeepsState(t *testing.T) {
	d := newTestDashboard(t)
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	before := d.Snapshot()

	require.NoError(t, d.SelectSymbol("TSLA"))
	after := d.Snapshot()

	assert.Equal(t, "TSLA", after.Symbol)
	assert.Equal(t, before.MarketData, after.MarketData)
	assert.Equal(t, before.Technical, after.Technical)
	assert.Equal(t, before.Sentiment, after.Sentiment)
	assert.Equal(t, before.Volatility, after.Volatility)
}

func TestSelectEachSymbol(t *testing.T) {
	d := newTestDashboard(t)
	for _, ticker := range symbol.Tickers() {
		require.NoError(t, d.SelectSymbol(ticker))
		assert.Equal(t, ticker, d.Symbol())
	}
}

func TestSelectUnknownSymbol(t *testing.T) {
	d := newTestDashboard(t)
	err := d.SelectSymbol("ZZZZ")
	assert.ErrorIs(t, err, symbol.ErrUnknownSymbol)
	assert.Equal(t, "AAPL", d.Symbol())
}

func TestSelectHooks(t *testing.T) {
	d := newTestDashboard(t)
	var got []string
	d.OnSelect(func(s string) { got = append(got, s) })

	require.NoError(t, d.SelectSymbol("NVDA"))
	require.NoError(t, d.SelectSymbol("NVDA")) // unchanged, no hook
	require.NoError(t, d.SelectSymbol("AMD"))
	_ = d.SelectSymbol("ZZZZ")

	assert.Equal(t, []string{"NVDA", "AMD"}, got)
}

func TestConcurrentTickAndSelect(t *testing.T) {
	d := newTestDashboard(t)
	tickers := symbol.Tickers()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			d.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = d.SelectSymbol(tickers[i%len(tickers)])
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s := d.Snapshot()
			if len(s.MarketData) > engine.WindowSize {
				t.Errorf("window length %d", len(s.MarketData))
				return
			}
			// groups are either all empty or all present
			if (s.Technical == nil) != (s.Sentiment == nil) || (s.Sentiment == nil) != (s.Volatility == nil) {
				t.Error("partially populated metric groups")
				return
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, uint64(500), d.Ticks())
}
