package report

import (
	"fmt"
	"strings"

	"CryptoReportBot/internal/models"
	"CryptoReportBot/internal/services/analysis"
	"CryptoReportBot/internal/services/indicators"

	"github.com/shopspring/decimal"
)

const (
	Label      = "Professional Analysis"
	Disclaimer = "Disclaimer: This report is for educational purposes only and is not financial advice. " +
		"Leveraged trading carries a high risk of loss."
)

var (
	MatrixHeaders = []string{"Horizon", "Action", "Entry", "SL", "TP", "R:R", "Leverage"}
	MatrixWidths  = []int{8, 6, 10, 10, 10, 5, 8}
)

// Format renders a report in its fixed text layout. The output depends
// only on the report, so equal reports render byte for byte identically.
func Format(r *analysis.Report) string {
	if r == nil {
		panic("report: nil report")
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s | %s | %s UTC\n\n", r.Symbol, Label, r.GeneratedAt.UTC().Format("02 Jan 2006 – 15:04"))
	b.WriteString(anchorLine(r.Anchor))
	b.WriteString("\n\n")

	b.WriteString(RenderTable(MatrixHeaders, MatrixWidths, matrixRows(r.TradeMatrix)))
	b.WriteString("\n")

	b.WriteString(keyLevelsLine(r.Zone))
	b.WriteString("\n")
	b.WriteString(signalsLine(r))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sentiment: Short-term %.2f (%s) | Long-term %.2f (%s)\n\n",
		r.Sentiment.ShortTerm, analysis.Bias(r.Sentiment.ShortTerm),
		r.Sentiment.LongTerm, analysis.Bias(r.Sentiment.LongTerm))

	b.WriteString("Market Drivers:\n")
	writeBullets(&b, r.MarketDrivers)
	b.WriteString("\nRisk Management:\n")
	writeBullets(&b, r.RiskNotes)

	b.WriteString("\n")
	b.WriteString(Disclaimer)
	b.WriteString("\n")
	return b.String()
}

func anchorLine(c models.Candle) string {
	label := "Anchor Candle"
	if c.TimeFrame != "" {
		label += " " + c.TimeFrame
	}
	if !c.OpenTime.IsZero() {
		label += " " + c.OpenTime.UTC().Format("15:04") + " UTC"
	}
	return fmt.Sprintf("%s | O: %s | H: %s | L: %s | C: %s",
		label, Price(c.Open), Price(c.High), Price(c.Low), Price(c.Close))
}

func matrixRows(legs []analysis.TradeLeg) [][]string {
	if len(legs) == 0 {
		return [][]string{{"-", "FLAT", "-", "-", "-", "-", "-"}}
	}

	rows := make([][]string, len(legs))
	for i, leg := range legs {
		if leg.Horizon == "" || leg.Action == "" {
			panic(fmt.Sprintf("report: trade leg %d has no horizon or action", i))
		}
		rows[i] = []string{
			leg.Horizon,
			leg.Action,
			Price(leg.Entry),
			Price(leg.StopLoss),
			Price(leg.TakeProfit),
			decimal.NewFromFloat(leg.RiskReward).StringFixed(1),
			fmt.Sprintf("%dx", leg.Leverage),
		}
	}
	return rows
}

func keyLevelsLine(z analysis.Zone) string {
	line := fmt.Sprintf("Key Levels (%s): Support %s – %s | Resistance %s – %s",
		z.Source, Price(z.SupportLow), Price(z.SupportHigh), Price(z.ResistanceLow), Price(z.ResistanceHigh))
	if z.Compressed {
		line += " | Compressed"
	}
	return line
}

func signalsLine(r *analysis.Report) string {
	byFrame := make(map[string]indicators.IndicatorSet, len(r.Indicators))
	for _, set := range r.Indicators {
		byFrame[set.Timeframe] = set
	}

	parts := make([]string, 0, len(models.TimeFrames))
	for _, tf := range models.TimeFrames {
		set, ok := byFrame[tf]
		if !ok {
			parts = append(parts, tf+" n/a")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s RSI %s MACD %s OBV %s",
			tf, decimal.NewFromFloat(set.RSI).StringFixed(1), signed(set.Histogram), arrow(set.OBVSlope)))
	}
	return "Technical Signals: " + strings.Join(parts, " | ")
}

func writeBullets(b *strings.Builder, lines []string) {
	if len(lines) == 0 {
		b.WriteString("• none\n")
		return
	}
	for _, line := range lines {
		b.WriteString("• ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// Price formats a price with two decimals.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

func arrow(slope float64) string {
	switch {
	case slope > 0:
		return "↑"
	case slope < 0:
		return "↓"
	default:
		return "→"
	}
}
