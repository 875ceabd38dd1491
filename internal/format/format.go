// Package format holds the pure display-formatting rules for prices,
// market-cap sized magnitudes and refresh timestamps. The thresholds and
// branch order are load-bearing: view sinks and tests rely on the exact
// output shapes.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// grouped prints with English-locale thousands separators.
var grouped = message.NewPrinter(language.English)

// Currency renders a unit price. Sub-cent prices keep six decimals,
// sub-dollar four, everything else two with thousands grouping.
func Currency(p *float64) string {
	if p == nil {
		return "$0.00"
	}
	v := *p
	switch {
	case math.Abs(v) < 0.01:
		return fmt.Sprintf("$%.6f", v)
	case math.Abs(v) < 1:
		return fmt.Sprintf("$%.4f", v)
	default:
		return grouped.Sprintf("$%.2f", v)
	}
}

// LargeNumber abbreviates a market-cap or volume sized value.
func LargeNumber(p *float64) string {
	if p == nil {
		return "N/A"
	}
	v := *p
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// ChangePercent renders a signed 24h change, e.g. "+1.84%".
func ChangePercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// Clock renders a wall-clock instant as hour:minute:second.
func Clock(t time.Time) string {
	return t.Format("15:04:05")
}
