package reports

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"affdash-backend/lib/scrapers/e2"
	"affdash-backend/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	headerWidth = 65
	columnWidth = 30
	separator   = "*━━━━━━━━━━━━━━━━━━━━*"
)

// markdownSections is the display order and row style of the non
// registered sections. parens sections show count and amount, the
// others show the amount only.
var markdownSections = []struct {
	Name   string
	Sep    string
	Parens bool
}{
	{"First Deposit", "|", true},
	{"Deposit", "|", true},
	{"Withdrawal", "|", true},
	{"Affiliate Profit & Loss", "=", false},
	{"Turnover", "=", false},
}

func pad(n int) string {
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

// spaceCurrency puts exactly one space between a leading currency
// token and the number, so "$1,234.56" renders as "$ 1,234.56".
// Strings that already start with a digit pass through untouched.
func spaceCurrency(text string) string {
	text = strings.TrimSpace(text)
	rs := []rune(text)
	if len(rs) == 0 || unicode.IsDigit(rs[0]) {
		return text
	}
	for i, r := range rs {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			currency := strings.TrimSpace(string(rs[:i]))
			amount := strings.TrimSpace(string(rs[i:]))
			return fmt.Sprintf("%s %s", currency, amount)
		}
	}
	return text
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func rowAmount(sectionName string, row e2.Row, sectionCurrency string) string {
	if sectionName == "Affiliate Profit & Loss" {
		// negative amounts render with the sign glued to the number
		if strings.HasPrefix(row.Amount, "-") && len(row.Amount) > 1 {
			return strings.ReplaceAll(row.Amount, " ", "")
		}
		return row.Amount
	}

	currency := row.Symbol
	if currency == "" {
		currency = sectionCurrency
	}
	if currency != "" {
		return fmt.Sprintf("%s %s", currency, row.Amount)
	}
	return row.Amount
}

// FormatMarkdown renders one snapshot as a Telegram-style Markdown
// message. currencyLabel is the display key of the snapshot's currency
// context; at is the scrape time and is rendered in Malaysia time.
func FormatMarkdown(snapshot e2.Snapshot, account, currencyLabel string, at time.Time) string {
	if at.IsZero() {
		at = timezone.Now()
	}
	at = timezone.In(at)

	date := at.Format("Mon, January 02")
	displayName := account
	if currencyLabel != "" {
		displayName = fmt.Sprintf("⟪ %s ⟫ (%s)", account, currencyLabel)
	}
	padding := headerWidth - len([]rune(displayName)) - len([]rune(date))
	header := fmt.Sprintf("*%s%s%s*\n", displayName, pad(padding), date)

	msg := []string{header}

	if snapshot.Withdrawable != "" {
		// symbol and amount each get their own code span
		parts := strings.Split(snapshot.Withdrawable, " ")
		for i := range parts {
			parts[i] = "`" + parts[i] + "`"
		}
		msg = append(msg, fmt.Sprintf("*Withdrawable:* %s", strings.Join(parts, " ")))
	}

	ap := snapshot.ActivePlayers
	comm := snapshot.Commissions
	if ap != (e2.PeriodPair{}) || comm != (e2.Commissions{}) {
		activeHeader := "⦗ Active Players ⦘"
		commHeader := "⦗ Commissions ⦘"
		msg = append(msg, fmt.Sprintf("*%s%s%s*",
			activeHeader, pad(columnWidth-len([]rune(activeHeader))), commHeader))
		msg = append(msg, separator)

		left := fmt.Sprintf("This Period *≅* `%s`", orNA(ap.ThisPeriod))
		right := fmt.Sprintf("This Period - `%s`", orNA(spaceCurrency(comm.ThisPeriod)))
		msg = append(msg, left+pad(columnWidth-len([]rune(left)))+right)

		left = fmt.Sprintf("Last Period *≅* `%s`", orNA(ap.LastPeriod))
		right = fmt.Sprintf("Last Period - `%s`", orNA(spaceCurrency(comm.LastPeriod)))
		msg = append(msg, left+pad(columnWidth-len([]rune(left)))+right)

		msg = append(msg, separator)
	}

	if section, ok := snapshot.Sections["Registered Users"]; ok {
		msg = append(msg, "*⦗ Registered Users ⦘*")
		msg = append(msg, separator)
		for _, row := range section.Rows {
			msg = append(msg, fmt.Sprintf("• %s ⁃ `%s`", row.Period, row.Count))
		}
		msg = append(msg, separator)
	}

	for _, spec := range markdownSections {
		section, ok := snapshot.Sections[spec.Name]
		if !ok {
			continue
		}

		msg = append(msg, fmt.Sprintf("*⦗ %s ⦘*", spec.Name))
		msg = append(msg, separator)

		for _, row := range section.Rows {
			amount := rowAmount(spec.Name, row, section.Currency)
			if spec.Parens {
				msg = append(msg, fmt.Sprintf("• %s %s `%s` %s ( `%s` )",
					row.Period, spec.Sep, row.Count, spec.Sep, amount))
			} else {
				msg = append(msg, fmt.Sprintf("• %s %s `%s`", row.Period, spec.Sep, amount))
			}
		}

		msg = append(msg, separator)
	}

	msg = append(msg, fmt.Sprintf("_Last updated: %s_", at.Format("2006-01-02 15:04:05 (MYT)")))

	return strings.Join(msg, "\n")
}

// FormatText renders one snapshot as plain tables for terminal use.
func FormatText(snapshot e2.Snapshot, account, currencyLabel string, at time.Time) string {
	if at.IsZero() {
		at = timezone.Now()
	}
	at = timezone.In(at)

	var b strings.Builder
	if currencyLabel != "" {
		fmt.Fprintf(&b, "%s (%s)\n", account, currencyLabel)
	} else {
		fmt.Fprintf(&b, "%s\n", account)
	}

	if snapshot.Withdrawable != "" {
		fmt.Fprintf(&b, "Withdrawable: %s\n", snapshot.Withdrawable)
	}

	ap := snapshot.ActivePlayers
	comm := snapshot.Commissions
	if ap != (e2.PeriodPair{}) || comm != (e2.Commissions{}) {
		overview := table.NewWriter()
		overview.SetStyle(table.StyleLight)
		overview.AppendHeader(table.Row{"", "Active Players", "Commissions"})
		overview.AppendRow(table.Row{"This Period", orNA(ap.ThisPeriod), orNA(spaceCurrency(comm.ThisPeriod))})
		overview.AppendRow(table.Row{"Last Period", orNA(ap.LastPeriod), orNA(spaceCurrency(comm.LastPeriod))})
		b.WriteString(overview.Render())
		b.WriteString("\n")
	}

	for _, name := range e2.SectionNames {
		section, ok := snapshot.Sections[name]
		if !ok {
			continue
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetTitle(name)
		if len(section.Rows) > 0 && section.Rows[0].Kind == e2.RowRegistered {
			t.AppendHeader(table.Row{"Period", "Count"})
			for _, row := range section.Rows {
				t.AppendRow(table.Row{row.Period, row.Count})
			}
		} else {
			t.AppendHeader(table.Row{"Period", "Count", "Amount"})
			for _, row := range section.Rows {
				t.AppendRow(table.Row{row.Period, row.Count, rowAmount(name, row, section.Currency)})
			}
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Last updated: %s\n", at.Format("2006-01-02 15:04:05 (MYT)"))
	return b.String()
}
