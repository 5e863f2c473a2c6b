package render

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatUSD returns whole dollars with thousands separators ("$1,234,567").
func FormatUSD(v float64) string {
	if v < 0 {
		return "-" + FormatUSD(-v)
	}
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

// FormatCount returns n with thousands separators.
func FormatCount[T int | int64](n T) string {
	return printer.Sprintf("%d", int64(n))
}

// FormatScore returns a score with two decimals.
func FormatScore(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// FormatCompactUSD shortens large amounts for axis ticks ("$150M", "$2.5K").
func FormatCompactUSD(v float64) string {
	abs := math.Abs(v)
	var suffix string
	switch {
	case abs >= 1e9:
		v, suffix = v/1e9, "B"
	case abs >= 1e6:
		v, suffix = v/1e6, "M"
	case abs >= 1e3:
		v, suffix = v/1e3, "K"
	default:
		return FormatUSD(v)
	}
	s := printer.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:] + suffix
	}
	return "$" + s + suffix
}

// truncateString shortens s to maxLen runes, marking the cut with "...".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
