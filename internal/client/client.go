// Package client talks to a running dashd over REST and WebSocket.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/symbol"
	"github.com/ndrandal/stock-dashboard/internal/view"
	"github.com/ndrandal/stock-dashboard/internal/wire"
)

// Client is a dashd API client.
type Client struct {
	base string
	rest *resty.Client
}

// SymbolInfo is one entry of GET /api/symbols.
type SymbolInfo struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Selected bool   `json:"selected"`
}

// SelectResult is the response to PUT /api/symbol.
type SelectResult struct {
	Symbol   string `json:"symbol"`
	Previous string `json:"previous"`
	Changed  bool   `json:"changed"`
}

// DashboardState is the response to GET /api/dashboard.
type DashboardState struct {
	Snapshot dashboard.Snapshot `json:"snapshot"`
	View     view.Model         `json:"view"`
}

type apiError struct {
	Error string `json:"error"`
}

// New creates a client for the server at base (e.g. http://localhost:8080).
func New(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second)
	}
	return &Client{base: strings.TrimRight(base, "/"), rest: r}
}

// Symbols lists the selectable symbols.
func (c *Client) Symbols(ctx context.Context) ([]SymbolInfo, error) {
	var out []SymbolInfo
	if err := c.get(ctx, "/api/symbols", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard fetches the current snapshot and display model.
func (c *Client) Dashboard(ctx context.Context) (DashboardState, error) {
	var out DashboardState
	err := c.get(ctx, "/api/dashboard", &out)
	return out, err
}

// Select changes the server's selected symbol. Unknown tickers return an
// error wrapping symbol.ErrUnknownSymbol.
func (c *Client) Select(ctx context.Context, ticker string) (SelectResult, error) {
	var out SelectResult
	var apiErr apiError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"symbol": ticker}).
		SetResult(&out).
		SetError(&apiErr).
		Put(c.base + "/api/symbol")
	if err != nil {
		return SelectResult{}, fmt.Errorf("select %s: %w", ticker, err)
	}
	if resp.StatusCode() == 404 {
		return SelectResult{}, fmt.Errorf("%w: %q", symbol.ErrUnknownSymbol, ticker)
	}
	if resp.IsError() {
		return SelectResult{}, fmt.Errorf("select %s: %d %s", ticker, resp.StatusCode(), apiErr.Error)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	var apiErr apiError
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiErr).
		Get(c.base + path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("get %s: %d %s", path, resp.StatusCode(), apiErr.Error)
	}
	return nil
}

// WSURL derives the WebSocket endpoint from the HTTP base URL.
func (c *Client) WSURL() (string, error) {
	u, err := url.Parse(c.base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Stream connects to the WebSocket and calls fn for every frame until ctx is
// cancelled or the connection fails. A cancelled ctx returns nil.
func (c *Client) Stream(ctx context.Context, fn func(wire.Frame)) error {
	wsURL, err := c.WSURL()
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		f, err := wire.DecodeFrame(data)
		if err != nil {
			return err
		}
		fn(f)
	}
}
