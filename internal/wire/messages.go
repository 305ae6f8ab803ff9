package wire

import (
	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/view"
)

// Frame types sent from server to client.
type FrameType string

const (
	FrameSnapshot FrameType = "snapshot"
	FrameSymbol   FrameType = "symbol"
	FrameError    FrameType = "error"
)

// Control actions sent from client to server.
const (
	ActionSelect   = "select"
	ActionSnapshot = "snapshot"
)

// Frame is the universal server → client message. Only the fields of its
// type are set.
type Frame struct {
	Type     FrameType           `json:"type"`
	Snapshot *dashboard.Snapshot `json:"snapshot,omitempty"`
	View     *view.Model         `json:"view,omitempty"`
	Symbol   string              `json:"symbol,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Control is a client → server message.
type Control struct {
	Action string `json:"action"`
	Symbol string `json:"symbol,omitempty"`
}

// SnapshotFrame wraps s together with its display model.
func SnapshotFrame(s dashboard.Snapshot) Frame {
	m := view.Build(s)
	return Frame{Type: FrameSnapshot, Snapshot: &s, View: &m}
}

// SymbolFrame announces a new selection.
func SymbolFrame(ticker string) Frame {
	return Frame{Type: FrameSymbol, Symbol: ticker}
}

// ErrorFrame reports a rejected control message.
func ErrorFrame(msg string) Frame {
	return Frame{Type: FrameError, Error: msg}
}
