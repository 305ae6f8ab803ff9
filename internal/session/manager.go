package session

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/wire"
)

// Recorder receives connection statistics. Metrics implement it.
type Recorder interface {
	SetClients(n int)
	FrameDropped()
}

type nopRecorder struct{}

func (nopRecorder) SetClients(int) {}
func (nopRecorder) FrameDropped()  {}

// Manager handles client registration and frame fan-out. Every client views
// the same dashboard.
type Manager struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	dash       *dashboard.Dashboard
	bufferSize int
	rec        Recorder
}

// NewManager creates a session manager over d. Symbol changes made by any
// client (or the REST API) are announced to all clients. rec may be nil.
func NewManager(d *dashboard.Dashboard, bufferSize int, rec Recorder) *Manager {
	if rec == nil {
		rec = nopRecorder{}
	}
	m := &Manager{
		clients:    make(map[string]*Client),
		dash:       d,
		bufferSize: bufferSize,
		rec:        rec,
	}
	d.OnSelect(func(ticker string) {
		m.Broadcast(wire.SymbolFrame(ticker))
	})
	return m
}

// Register adds a new client. Returns the client for further use.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := NewClient(conn, m.bufferSize)
	m.add(c)
	log.Info().Str("client", c.ID).Str("remote", conn.RemoteAddr().String()).Msg("client connected")
	return c
}

func (m *Manager) add(c *Client) {
	m.mu.Lock()
	m.clients[c.ID] = c
	n := len(m.clients)
	m.mu.Unlock()
	m.rec.SetClients(n)
}

// Unregister removes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	n := len(m.clients)
	m.mu.Unlock()
	m.rec.SetClients(n)

	c.Close()
	log.Info().Str("client", c.ID).Uint64("dropped", atomic.LoadUint64(&c.Dropped)).Msg("client disconnected")
}

// Broadcast encodes f once and fans it out to every client.
func (m *Manager) Broadcast(f wire.Frame) {
	data, err := wire.EncodeJSON(f)
	if err != nil {
		log.Error().Err(err).Str("type", string(f.Type)).Msg("encode frame")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		if !c.Send(data) {
			m.rec.FrameDropped()
		}
	}
}

// BroadcastSnapshot sends s to every client. Registered as a tick listener.
func (m *Manager) BroadcastSnapshot(s dashboard.Snapshot) {
	m.Broadcast(wire.SnapshotFrame(s))
}

// SendToClient sends a frame directly to one client (e.g. the current
// snapshot on connect).
func (m *Manager) SendToClient(c *Client, f wire.Frame) {
	data, err := wire.EncodeJSON(f)
	if err != nil {
		log.Error().Err(err).Str("client", c.ID).Msg("encode frame")
		return
	}
	if !c.Send(data) {
		m.rec.FrameDropped()
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Dashboard returns the dashboard the clients are viewing.
func (m *Manager) Dashboard() *dashboard.Dashboard {
	return m.dash
}
