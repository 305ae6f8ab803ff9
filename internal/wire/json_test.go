package wire

import (
	"encoding/json"
	"testing"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/engine"
)

func decodeMap(t *testing.T, f Frame) map[string]any {
	t.Helper()
	data, err := EncodeJSON(f)
	if err != nil {
		t.Fatalf("EncodeJSON error: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	return obj
}

func TestEncodeSnapshotFrame(t *testing.T) {
	s := dashboard.Snapshot{
		Symbol:     "AMD",
		MarketData: []engine.Sample{{Timestamp: "2026-10-17T09:30:00.000Z", Price: 210, Volume: 5}},
		Technical:  &engine.TechnicalIndicators{SMA: "191.00", EMA: "196.00", RSI: "10.00"},
		Sentiment:  &engine.SentimentMetrics{SentimentScore: "0.10", EmotionClass: "Fear"},
		Volatility: &engine.VolatilityMetrics{EarningsSurprise: "1.00", VIXIndex: "2.00"},
		Ticks:      1,
	}
	obj := decodeMap(t, SnapshotFrame(s))

	if obj["type"] != "snapshot" {
		t.Fatalf("type = %v, want snapshot", obj["type"])
	}
	snap, ok := obj["snapshot"].(map[string]any)
	if !ok {
		t.Fatalf("snapshot missing: %v", obj)
	}
	if snap["symbol"] != "AMD" {
		t.Fatalf("snapshot.symbol = %v, want AMD", snap["symbol"])
	}
	vol := snap["volatilityMetrics"].(map[string]any)
	if _, present := vol["maNews"]; present {
		t.Fatal("maNews should be omitted when absent")
	}
	v, ok := obj["view"].(map[string]any)
	if !ok {
		t.Fatalf("view missing: %v", obj)
	}
	if v["priceLabel"] != "$210.00" {
		t.Fatalf("view.priceLabel = %v, want $210.00", v["priceLabel"])
	}
}

func TestEncodeEmptySnapshotOmitsMetrics(t *testing.T) {
	obj := decodeMap(t, SnapshotFrame(dashboard.Snapshot{Symbol: "AAPL"}))
	snap := obj["snapshot"].(map[string]any)
	for _, key := range []string{"technicalIndicators", "sentimentMetrics", "volatilityMetrics", "updatedAt"} {
		if _, ok := snap[key]; ok {
			t.Errorf("%s should be omitted before the first tick", key)
		}
	}
	if obj["view"].(map[string]any)["price"] != "0" {
		t.Fatalf("empty window price = %v, want 0", obj["view"].(map[string]any)["price"])
	}
}

func TestEncodeSymbolFrame(t *testing.T) {
	obj := decodeMap(t, SymbolFrame("NVDA"))
	if obj["type"] != "symbol" || obj["symbol"] != "NVDA" {
		t.Fatalf("unexpected symbol frame: %v", obj)
	}
	if _, ok := obj["snapshot"]; ok {
		t.Fatal("symbol frame should not carry a snapshot")
	}
}

func TestEncodeErrorFrame(t *testing.T) {
	obj := decodeMap(t, ErrorFrame("unknown symbol"))
	if obj["type"] != "error" || obj["error"] != "unknown symbol" {
		t.Fatalf("unexpected error frame: %v", obj)
	}
}

func TestEncodeRejectsBadFrames(t *testing.T) {
	if _, err := EncodeJSON(Frame{Type: "bogus"}); err == nil {
		t.Fatal("expected error for unknown frame type")
	}
	if _, err := EncodeJSON(Frame{Type: FrameSnapshot}); err == nil {
		t.Fatal("expected error for snapshot frame without snapshot")
	}
}

func TestDecodeFrameRoundTrip(t *testing.T) {
	data, err := EncodeJSON(SymbolFrame("META"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.Type != FrameSymbol || f.Symbol != "META" {
		t.Fatalf("decoded %+v", f)
	}
}

func TestDecodeControlNormalizes(t *testing.T) {
	c, err := DecodeControl([]byte(`{"action":" Select ","symbol":" msft"}`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Action != ActionSelect || c.Symbol != "MSFT" {
		t.Fatalf("decoded %+v", c)
	}
}

func TestDecodeControlInvalid(t *testing.T) {
	if _, err := DecodeControl([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
