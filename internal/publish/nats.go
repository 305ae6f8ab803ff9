// Package publish forwards dashboard ticks and symbol changes to NATS so
// other services can consume the simulated feed.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
)

// ErrNotConnected is returned when publishing without a live connection.
var ErrNotConnected = errors.New("nats client not connected")

// Config describes the NATS connection.
type Config struct {
	URL            string
	SubjectPrefix  string
	ClientName     string
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

// DefaultConfig returns connection settings for url with the "dashboard"
// subject prefix.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		SubjectPrefix:  "dashboard",
		ClientName:     "stock-dashboard",
		ConnectTimeout: 5 * time.Second,
		ReconnectWait:  2 * time.Second,
		MaxReconnects:  -1,
	}
}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Flush() error
	Close()
}

// Publisher sends JSON payloads to NATS subjects under a common prefix.
type Publisher struct {
	cfg Config

	mu sync.RWMutex
	nc conn
}

// SymbolEvent is the payload published when the selection changes.
type SymbolEvent struct {
	Symbol string    `json:"symbol"`
	At     time.Time `json:"at"`
}

// New creates an unconnected publisher.
func New(cfg Config) *Publisher {
	return &Publisher{cfg: cfg}
}

// Connect dials the server. The client keeps retrying in the background if
// the first attempt fails.
func (p *Publisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.nc != nil {
		return nil
	}

	opts := []nats.Option{
		nats.Name(p.cfg.ClientName),
		nats.Timeout(p.cfg.ConnectTimeout),
		nats.ReconnectWait(p.cfg.ReconnectWait),
		nats.MaxReconnects(p.cfg.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Warn().Msg("nats connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected, attempting reconnect")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}

	nc, err := nats.Connect(p.cfg.URL, opts...)
	if err != nil {
		return fmt.Errorf("nats connect %s: %w", p.cfg.URL, err)
	}
	p.nc = nc
	log.Info().Str("url", p.cfg.URL).Str("prefix", p.cfg.SubjectPrefix).Msg("nats publisher connected")
	return nil
}

// TickSubject returns the subject ticks for ticker are published on.
func (p *Publisher) TickSubject(ticker string) string {
	return p.subject("tick." + ticker)
}

// SymbolSubject returns the subject symbol changes are published on.
func (p *Publisher) SymbolSubject() string {
	return p.subject("symbol")
}

func (p *Publisher) subject(s string) string {
	if p.cfg.SubjectPrefix == "" {
		return s
	}
	return p.cfg.SubjectPrefix + "." + s
}

// Publish sends data to the fully qualified subject.
func (p *Publisher) Publish(subject string, data []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.nc == nil {
		return ErrNotConnected
	}
	return p.nc.Publish(subject, data)
}

// PublishJSON marshals v and publishes it.
func (p *Publisher) PublishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", subject, err)
	}
	return p.Publish(subject, data)
}

// OnTick publishes a post-tick snapshot. Failures are logged only.
func (p *Publisher) OnTick(s dashboard.Snapshot) {
	subject := p.TickSubject(s.Symbol)
	if err := p.PublishJSON(subject, s); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("publish tick")
	}
}

// OnSelect publishes a symbol change. Failures are logged only.
func (p *Publisher) OnSelect(ticker string) {
	subject := p.SymbolSubject()
	if err := p.PublishJSON(subject, SymbolEvent{Symbol: ticker, At: time.Now().UTC()}); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("publish symbol change")
	}
}

// IsConnected reports whether Connect has succeeded and Disconnect has not
// been called.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nc != nil
}

// Disconnect flushes pending messages and closes the connection.
func (p *Publisher) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.nc == nil {
		return nil
	}
	err := p.nc.Flush()
	p.nc.Close()
	p.nc = nil
	if err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}
	log.Info().Msg("nats publisher closed")
	return nil
}
