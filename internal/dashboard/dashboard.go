// Package dashboard owns the single dashboard state: the selected symbol,
// the rolling market window and the three metric groups, and the timer that
// refreshes them.
package dashboard

import (
	"sync"
	"time"

	"github.com/ndrandal/stock-dashboard/internal/engine"
	"github.com/ndrandal/stock-dashboard/internal/symbol"
)

// Snapshot is a consistent copy of the dashboard state. Metric groups are
// nil until the first tick and fully populated afterwards.
type Snapshot struct {
	Symbol     string                      `json:"symbol"`
	MarketData []engine.Sample             `json:"marketData"`
	Technical  *engine.TechnicalIndicators `json:"technicalIndicators,omitempty"`
	Sentiment  *engine.SentimentMetrics    `json:"sentimentMetrics,omitempty"`
	Volatility *engine.VolatilityMetrics   `json:"volatilityMetrics,omitempty"`
	Ticks      uint64                      `json:"ticks"`
	UpdatedAt  *time.Time                  `json:"updatedAt,omitempty"`
}

// LastPrice returns the newest sample's price, or false for an empty window.
func (s Snapshot) LastPrice() (float64, bool) {
	if len(s.MarketData) == 0 {
		return 0, false
	}
	return s.MarketData[len(s.MarketData)-1].Price, true
}

// Dashboard holds the component state. All methods are safe for concurrent
// use; each Tick and SelectSymbol is applied atomically.
type Dashboard struct {
	mu         sync.RWMutex
	src        engine.Source
	now        func() time.Time
	selected   string
	window     *engine.Window
	technical  *engine.TechnicalIndicators
	sentiment  *engine.SentimentMetrics
	volatility *engine.VolatilityMetrics
	ticks      uint64
	updatedAt  time.Time

	hookMu      sync.RWMutex
	selectHooks []func(string)
}

// New creates a dashboard with initial selected and an empty window of
// engine.WindowSize samples.
func New(src engine.Source, initial string) (*Dashboard, error) {
	if _, err := symbol.Lookup(initial); err != nil {
		return nil, err
	}
	return &Dashboard{
		src:      src,
		now:      time.Now,
		selected: initial,
		window:   engine.NewWindow(engine.WindowSize),
	}, nil
}

// Symbol returns the selected ticker.
func (d *Dashboard) Symbol() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selected
}

// SelectSymbol replaces the selected ticker. The window and metrics are left
// as they are. Selecting the current ticker is a no-op; any real change is
// reported to the OnSelect hooks after the lock is released.
func (d *Dashboard) SelectSymbol(ticker string) error {
	if _, err := symbol.Lookup(ticker); err != nil {
		return err
	}

	d.mu.Lock()
	if d.selected == ticker {
		d.mu.Unlock()
		return nil
	}
	d.selected = ticker
	d.mu.Unlock()

	d.hookMu.RLock()
	hooks := append([]func(string){}, d.selectHooks...)
	d.hookMu.RUnlock()
	for _, fn := range hooks {
		fn(ticker)
	}
	return nil
}

// OnSelect registers fn to run after every symbol change.
func (d *Dashboard) OnSelect(fn func(string)) {
	d.hookMu.Lock()
	defer d.hookMu.Unlock()
	d.selectHooks = append(d.selectHooks, fn)
}

// Tick generates one update, appends its sample and replaces all metric
// groups, then returns the resulting snapshot.
func (d *Dashboard) Tick() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	t := engine.GenerateTick(d.src, now)

	d.window.Append(t.Sample)
	d.technical = &t.Technical
	d.sentiment = &t.Sentiment
	d.volatility = &t.Volatility
	d.ticks++
	d.updatedAt = now

	return d.snapshotLocked()
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

// WindowLen returns the number of samples currently held.
func (d *Dashboard) WindowLen() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.window.Len()
}

// Ticks returns how many ticks have been applied.
func (d *Dashboard) Ticks() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ticks
}

func (d *Dashboard) snapshotLocked() Snapshot {
	s := Snapshot{
		Symbol:     d.selected,
		MarketData: d.window.Samples(),
		Ticks:      d.ticks,
	}
	// metric groups are replaced, never mutated, so sharing copies is enough
	if d.technical != nil {
		tech := *d.technical
		s.Technical = &tech
	}
	if d.sentiment != nil {
		sent := *d.sentiment
		s.Sentiment = &sent
	}
	if d.volatility != nil {
		vol := *d.volatility
		s.Volatility = &vol
	}
	if !d.updatedAt.IsZero() {
		at := d.updatedAt
		s.UpdatedAt = &at
	}
	return s
}
