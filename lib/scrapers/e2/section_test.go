package e2

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *goquery.Document {
	f, err := os.Open("testdata/dashboard.html")
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func TestExtractRegisteredUsers(t *testing.T) {
	doc := loadFixture(t)

	section, ok := extractSection(doc, "Registered Users", "$")
	require.True(t, ok)
	require.Equal(t, []string{"Period", "Count"}, section.Headers)

	var periods []string
	for _, row := range section.Rows {
		require.Equal(t, RowRegistered, row.Kind)
		require.Empty(t, row.Amount)
		periods = append(periods, row.Period)
	}
	// "All Time" and the short row get dropped, document order stays.
	require.Equal(t, []string{"Today", "Yesterday", "This Week", "This Month", "Last Month"}, periods)
}

func TestExtractStandardSection(t *testing.T) {
	doc := loadFixture(t)

	section, ok := extractSection(doc, "First Deposit", "$")
	require.True(t, ok)
	require.Equal(t, "$", section.Currency)
	require.Len(t, section.Rows, 3)

	first := section.Rows[0]
	require.Equal(t, RowStandard, first.Kind)
	require.Equal(t, "Today", first.Period)
	require.Equal(t, "1", first.Count)
	require.Equal(t, "100.00", first.Amount)
	require.Equal(t, "$", first.Symbol)
}

func TestExtractNegativeWithGlyph(t *testing.T) {
	doc := loadFixture(t)

	section, ok := extractSection(doc, "Withdrawal", "$")
	require.True(t, ok)
	require.Len(t, section.Rows, 2)

	// bare amount without a glyph stays verbatim
	require.Equal(t, "180.00", section.Rows[0].Amount)
	require.Equal(t, "", section.Rows[0].Symbol)

	// minus ahead of the glyph keeps the sign on the amount
	require.Equal(t, "-620.00", section.Rows[1].Amount)
	require.Equal(t, "$", section.Rows[1].Symbol)
}

func TestExtractProfitLossRedNegative(t *testing.T) {
	doc := loadFixture(t)

	section, ok := extractSection(doc, "Affiliate Profit & Loss", "$")
	require.True(t, ok)
	require.Len(t, section.Rows, 2)

	// red styling means negative even though the text has no sign
	require.Equal(t, "-123.45", section.Rows[0].Amount)
	require.Equal(t, "", section.Rows[0].Symbol)

	require.Equal(t, "321.00", section.Rows[1].Amount)
	require.Equal(t, "$", section.Rows[1].Symbol)
}

func TestExtractTurnoverMonthlyOnly(t *testing.T) {
	doc := loadFixture(t)

	section, ok := extractSection(doc, "Turnover", "$")
	require.True(t, ok)

	var periods []string
	for _, row := range section.Rows {
		periods = append(periods, row.Period)
	}
	require.Equal(t, []string{"This Month", "Last Month"}, periods)
}

func TestExtractMissingSection(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<html><body>
		<div class="panel"><h2>Registered Users</h2>
		<table><tr><th>Period</th><th>Count</th></tr>
		<tr><td>Today</td><td>1</td></tr></table></div>
		</body></html>`))
	require.NoError(t, err)

	_, ok := extractSection(doc, "Deposit", "")
	require.False(t, ok)

	section, ok := extractSection(doc, "Registered Users", "")
	require.True(t, ok)
	require.Len(t, section.Rows, 1)
}

func TestLocateByPositionFallback(t *testing.T) {
	// no h2 heading anywhere; the structural selector
	// div.panel > div:nth-child(5) has to find the table.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<html><body>
		<div class="panel">
			<div>a</div><div>b</div><div>c</div><div>d</div>
			<div>
				<table><tr><th>Period</th><th>Count</th></tr>
				<tr><td>Today</td><td>8</td></tr></table>
			</div>
		</div>
		</body></html>`))
	require.NoError(t, err)

	section, ok := extractSection(doc, "Registered Users", "")
	require.True(t, ok)
	require.Equal(t, "8", section.Rows[0].Count)
}

func TestLocateBySubstringFallback(t *testing.T) {
	// heading is not an h2 and the panel has too few children for the
	// positional selector, so only the substring scan can find it.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<html><body>
		<div class="panel">
			<span>Registered Users</span>
			<table><tr><th>Period</th><th>Count</th></tr>
			<tr><td>Yesterday</td><td>6</td></tr></table>
		</div>
		</body></html>`))
	require.NoError(t, err)

	section, ok := extractSection(doc, "Registered Users", "")
	require.True(t, ok)
	require.Equal(t, "Yesterday", section.Rows[0].Period)
}

func TestHeadingMatchIgnoresSpacing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<html><body>
		<div class="panel">
			<h2>  registered
			users </h2>
			<table><tr><th>Period</th><th>Count</th></tr>
			<tr><td>Today</td><td>2</td></tr></table>
		</div>
		</body></html>`))
	require.NoError(t, err)

	sel := locateByHeading(doc, sectionSpecs["Registered Users"])
	require.NotNil(t, sel)
	require.Equal(t, 1, sel.Length())
}
