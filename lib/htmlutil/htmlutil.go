package htmlutil

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CellText extracts the trimmed, printable text of a selection. Unlike
// goquery's .Text() it drops non-printable characters the dashboard
// likes to sprinkle into table cells.
func CellText(sel *goquery.Selection) string {
	text := removeNonPrintable(sel.Text())
	return strings.Trim(text, " \t\n")
}
