package wire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeJSON encodes a frame into JSON bytes.
func EncodeJSON(f Frame) ([]byte, error) {
	switch f.Type {
	case FrameSnapshot:
		if f.Snapshot == nil {
			return nil, fmt.Errorf("snapshot frame without snapshot")
		}
	case FrameSymbol, FrameError:
	default:
		return nil, fmt.Errorf("unsupported frame type: %q", f.Type)
	}
	return json.Marshal(f)
}

// DecodeFrame parses a server frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

// DecodeControl parses a client control message. Tickers are upper-cased so
// "msft" selects MSFT.
func DecodeControl(data []byte) (Control, error) {
	var c Control
	if err := json.Unmarshal(data, &c); err != nil {
		return Control{}, fmt.Errorf("decode control: %w", err)
	}
	c.Action = strings.ToLower(strings.TrimSpace(c.Action))
	c.Symbol = strings.ToUpper(strings.TrimSpace(c.Symbol))
	return c, nil
}

// EncodeControl encodes a client control message.
func EncodeControl(c Control) ([]byte, error) {
	return json.Marshal(c)
}
