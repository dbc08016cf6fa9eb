package notifier

import (
	"fmt"
	"strings"

	"BandWatch/internal/model"
	"BandWatch/internal/pipeline"
)

// FormatRunReport formats a completed run into a Telegram message.
func FormatRunReport(res *pipeline.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>BandWatch</b> | %s\n\n", res.FinishedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Stocks: %d processed, %d skipped (of %d)\n",
		len(res.Records), len(res.Skipped), len(res.Symbols)))
	b.WriteString(fmt.Sprintf("History: %s → %s\n", res.Start.Format("2006-01-02"), res.End.Format("2006-01-02")))

	for _, style := range model.Styles {
		var support, resistance []string
		for _, a := range res.Alerts {
			if a.Style != style.Name {
				continue
			}
			entry := fmt.Sprintf("%s %.2f (%.2f)", a.Symbol, a.Price, a.Level)
			if a.Label == model.LabelNearSupport {
				support = append(support, entry)
			} else {
				resistance = append(resistance, entry)
			}
		}
		if len(support) == 0 && len(resistance) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n<b>%s</b> (%dd)\n", style.Name, style.Window))
		if len(support) > 0 {
			b.WriteString("  🟢 Near Support: " + strings.Join(support, ", ") + "\n")
		}
		if len(resistance) > 0 {
			b.WriteString("  🔴 Near Resistance: " + strings.Join(resistance, ", ") + "\n")
		}
	}
	if len(res.Alerts) == 0 {
		b.WriteString("\nNo stock is near a band.\n")
	}

	if len(res.Skipped) > 0 {
		names := make([]string, len(res.Skipped))
		for i, s := range res.Skipped {
			names[i] = s.Symbol
		}
		b.WriteString("\n⚠️ Skipped: " + strings.Join(names, ", ") + "\n")
	}

	b.WriteString(fmt.Sprintf("\nSaved to %s", res.OutputFile))
	return b.String()
}

// FormatFailure formats a run that aborted.
func FormatFailure(err error) string {
	return fmt.Sprintf("❌ <b>BandWatch run failed</b>\n\n%v", err)
}
