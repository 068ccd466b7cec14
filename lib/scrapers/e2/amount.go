package e2

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// the closed set of currency glyphs the dashboard is known to render.
// anything outside this set is part of the amount, not a symbol.
const currencySymbols = "$€£¥₱₩₹₫฿₪₦₭₲₴₵"

func isCurrencySymbol(r rune) bool {
	return strings.ContainsRune(currencySymbols, r)
}

// CommissionCurrency derives the section-level default symbol from the
// "this period" commission text: its first rune, if recognized.
func CommissionCurrency(commissionText string) string {
	rs := []rune(strings.TrimSpace(commissionText))
	if len(rs) > 0 && isCurrencySymbol(rs[0]) {
		return string(rs[0])
	}
	return ""
}

// negative profit/loss is rendered purely via color, with no literal
// minus sign in the plain text.
const redSpanSelector = `span[style*="color:red"], span[style*="color: red"]`

// cellAmountText extracts the raw amount text of a table cell. When
// negRed is set (Profit & Loss only), a red-styled sub-element wins
// over the plain text and gets a minus prefixed without a space, and
// all inner spaces are dropped so the sign stays glued to the number.
func cellAmountText(cell *goquery.Selection, negRed bool) string {
	if negRed {
		red := cell.Find(redSpanSelector)
		if red.Length() > 0 {
			text := stripSpaces(red.First().Text())
			if text != "" && !strings.HasPrefix(text, "-") {
				return "-" + text
			}
			return text
		}
		return stripSpaces(cell.Text())
	}
	return strings.TrimSpace(cell.Text())
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// ResolveAmount splits an amount string into its signed decimal part
// and a leading currency glyph, honoring a minus sign ahead of the
// glyph. Unrecognized leading characters leave the text verbatim.
func ResolveAmount(text string) (amount, symbol string) {
	rs := []rune(text)

	if len(rs) > 1 && rs[0] == '-' {
		if isCurrencySymbol(rs[1]) {
			return "-" + strings.TrimSpace(string(rs[2:])), string(rs[1])
		}
		return text, ""
	}
	if len(rs) > 0 && isCurrencySymbol(rs[0]) {
		return strings.TrimSpace(string(rs[1:])), string(rs[0])
	}
	return text, ""
}
