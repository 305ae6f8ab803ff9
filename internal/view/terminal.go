package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// sparkBars are the glyphs used for the inline volume chart.
var sparkBars = []rune("▁▂▃▄▅▆▇█")

// RenderText draws m as a terminal panel.
func RenderText(m Model) string {
	var b strings.Builder

	price := m.PriceLabel
	switch m.Trend {
	case TrendUp:
		price = upStyle.Render(price + " ▲")
	case TrendDown:
		price = downStyle.Render(price + " ▼")
	}

	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(m.Symbol), price)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("price "), Sparkline(m.PriceSeries))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("volume"), Sparkline(m.VolumeSeries))

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), value)
	}
	row("SMA", m.SMA)
	row("EMA", m.EMA)
	row("RSI", m.RSI)
	row("Sentiment score", m.SentimentScore)
	row("Emotion", m.Emotion)
	row("Earnings surprise", m.EarningsSurprise)
	row("VIX index", m.VIX)

	if m.MAAlert != "" {
		fmt.Fprintf(&b, "\n%s %s", alertStyle.Render("M&A Alert:"), m.MAAlert)
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Sparkline scales points onto block glyphs, lowest value to lowest bar.
func Sparkline(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}

	out := make([]rune, len(points))
	for i, p := range points {
		idx := 0
		if hi > lo {
			idx = int((p.Value - lo) / (hi - lo) * float64(len(sparkBars)-1))
		}
		out[i] = sparkBars[idx]
	}
	return string(out)
}
