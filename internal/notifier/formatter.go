package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"marketlogic/internal/analyzer"
)

// FormatReport formats an analysis result into a Telegram HTML message.
func FormatReport(res *analyzer.Result) string {
	snap := res.Snapshot
	card := res.Scorecard

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s Scorecard</b> | %s\n\n", res.Ticker, res.AsOf.Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("Price: %.2f | MA50: %.2f | MA200: %.2f\n", snap.Price, snap.MA50, snap.MA200))
	b.WriteString(fmt.Sprintf("20d ROC: %+.1f%% | Win rate: %.0f%% | Vol z: %.2f\n", snap.ROC20d, snap.WinRate, snap.VolZScore))
	b.WriteString(fmt.Sprintf("52w position: %.0f%% | Volume (5d avg): %s\n\n", snap.RangePosition, humanize.SIWithDigits(snap.Volume5d, 1, "")))

	b.WriteString("<b>Blocks:</b>\n")
	for _, c := range card.Categories {
		b.WriteString(fmt.Sprintf("  %s: %+d/%d\n", c.Name, c.Score, c.Max))
		for _, v := range c.Verdicts {
			b.WriteString(fmt.Sprintf("    • %s\n", v))
		}
	}
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("  Raw: %+d | Normalized: %+.2f\n\n", card.Raw, card.Normalized))

	b.WriteString(fmt.Sprintf("💡 <b>%s</b>\n", card.Recommendation))
	return b.String()
}

// FormatChange formats a recommendation transition alert.
func FormatChange(ticker string, from, to string) string {
	return fmt.Sprintf("🔔 <b>%s recommendation changed</b>\n\n%s → <b>%s</b>\n", ticker, from, to)
}
