package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Generation ranges. Lower bounds are inclusive, upper bounds exclusive
// before 2-digit rounding.
const (
	priceMin, priceMax         = 200.0, 300.0
	volumeMax                  = 1000.0
	smaMin, smaMax             = 190.0, 200.0
	emaMin, emaMax             = 195.0, 205.0
	rsiMax                     = 100.0
	sentimentMin, sentimentMax = -1.0, 1.0
	searchVolumeMax            = 1000
	socialEngagementMax        = 10000
	sentimentVolumeMax         = 1000
	surpriseMin, surpriseMax   = -10.0, 10.0
	vixMax                     = 40.0

	// maNewsThreshold: a draw above it attaches the M&A alert (~20% of ticks).
	maNewsThreshold = 0.8
)

// MANewsAlert is the only M&A alert text the generator produces.
const MANewsAlert = "Potential merger discussion detected"

// TimestampLayout renders sample times as ISO-8601 UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// EmotionClasses is the fixed label set for SentimentMetrics.EmotionClass.
var EmotionClasses = []string{"Fear", "Greed", "Neutral", "Optimistic"}

// Sample is one point of the rolling market window.
type Sample struct {
	Timestamp string  `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

// TechnicalIndicators are placeholder values, not derived from price history.
type TechnicalIndicators struct {
	SMA string `json:"sma"`
	EMA string `json:"ema"`
	RSI string `json:"rsi"`
}

type SentimentMetrics struct {
	SentimentScore   string `json:"sentimentScore"`
	EmotionClass     string `json:"emotionClass"`
	SearchVolume     int    `json:"searchVolume"`
	SocialEngagement int    `json:"socialEngagement"`
	SentimentVolume  int    `json:"sentimentVolume"`
}

// VolatilityMetrics carries MANews only on ticks that raised the alert.
type VolatilityMetrics struct {
	EarningsSurprise string `json:"earningsSurprise"`
	VIXIndex         string `json:"vixIndex"`
	MANews           string `json:"maNews,omitempty"`
}

// HasMANews reports whether the M&A alert is present.
func (v VolatilityMetrics) HasMANews() bool {
	return v.MANews != ""
}

// Tick is everything one update cycle produces.
type Tick struct {
	Sample     Sample
	Technical  TechnicalIndicators
	Sentiment  SentimentMetrics
	Volatility VolatilityMetrics
}

// GenerateTick draws a full update from src. Every field takes exactly one
// draw, in a fixed order, so a scripted Source yields a predictable Tick:
// price, volume, sma, ema, rsi, score, emotion, search volume, social
// engagement, sentiment volume, earnings surprise, vix, M&A.
func GenerateTick(src Source, now time.Time) Tick {
	var t Tick

	t.Sample = Sample{
		Timestamp: now.UTC().Format(TimestampLayout),
		Price:     uniform(src, priceMin, priceMax),
		Volume:    uniform(src, 0, volumeMax),
	}

	t.Technical = TechnicalIndicators{
		SMA: fixed2(uniform(src, smaMin, smaMax)),
		EMA: fixed2(uniform(src, emaMin, emaMax)),
		RSI: fixed2(uniform(src, 0, rsiMax)),
	}

	t.Sentiment = SentimentMetrics{
		SentimentScore:   fixed2(uniform(src, sentimentMin, sentimentMax)),
		EmotionClass:     EmotionClasses[pick(src, len(EmotionClasses))],
		SearchVolume:     pick(src, searchVolumeMax),
		SocialEngagement: pick(src, socialEngagementMax),
		SentimentVolume:  pick(src, sentimentVolumeMax),
	}

	t.Volatility = VolatilityMetrics{
		EarningsSurprise: fixed2(uniform(src, surpriseMin, surpriseMax)),
		VIXIndex:         fixed2(uniform(src, 0, vixMax)),
	}
	if src.Float64() > maNewsThreshold {
		t.Volatility.MANews = MANewsAlert
	}

	return t
}

// fixed2 formats v with exactly two fraction digits.
func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
