package e2

import (
	"strings"

	"affdash-backend/lib/htmlutil"
	"affdash-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type sectionSpec struct {
	// Title is the canonical heading text of the section's panel.
	Title string
	// Container is a structural child-position selector observed to
	// hold this section in the dashboard's current layout. Pure
	// fallback; it breaks whenever the layout drifts.
	Container string
	// Registered sections use the 2-cell period/count row shape.
	Registered bool
	// Turnover renders monthly rows only.
	MonthlyOnly bool
}

// SectionNames lists all known report sections in display order.
var SectionNames = []string{
	"Registered Users",
	"First Deposit",
	"Deposit",
	"Withdrawal",
	"Affiliate Profit & Loss",
	"Turnover",
}

var sectionSpecs = map[string]sectionSpec{
	"Registered Users": {
		Title:      "Registered Users",
		Container:  "div:nth-child(5)",
		Registered: true,
	},
	"First Deposit": {
		Title:     "First Deposit",
		Container: "div:nth-child(3) > div:nth-child(3)",
	},
	"Deposit": {
		Title:     "Deposit",
		Container: "div:nth-child(4) > div:nth-child(1)",
	},
	"Withdrawal": {
		Title:     "Withdrawal",
		Container: "div:nth-child(4) > div:nth-child(2)",
	},
	"Affiliate Profit & Loss": {
		Title:     "Affiliate Profit & Loss",
		Container: "div:nth-child(7)",
	},
	"Turnover": {
		Title:       "Turnover",
		Container:   "div:nth-child(6) > div:nth-child(2)",
		MonthlyOnly: true,
	},
}

var fullPeriods = []string{"Today", "Yesterday", "This Week", "This Month", "Last Month"}
var monthlyPeriods = []string{"This Month", "Last Month"}

func (s sectionSpec) allowedPeriods() []string {
	if s.MonthlyOnly {
		return monthlyPeriods
	}
	return fullPeriods
}

// normalizePeriod maps a raw first-cell label onto the section's fixed
// period set. Rows outside the set are discarded, never stored.
func (s sectionSpec) normalizePeriod(raw string) (string, bool) {
	raw = textutil.CollapseWhitespace(raw)
	for _, p := range s.allowedPeriods() {
		if raw == p {
			return p, true
		}
	}
	return "", false
}

// sectionLocator is one way of finding a section's container block.
// the page's structure drifts between deployments, so locators run in
// strict preference order and the first non-empty result wins.
type sectionLocator func(doc *goquery.Document, spec sectionSpec) *goquery.Selection

var sectionLocators = []sectionLocator{
	locateByHeading,
	locateByPosition,
	locateBySubstring,
}

func locateByHeading(doc *goquery.Document, spec sectionSpec) *goquery.Selection {
	want := textutil.NormalizeName(spec.Title)

	var found *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if textutil.NormalizeName(h.Text()) != want {
			return true
		}
		panel := h.Closest("div.panel")
		if panel.Length() > 0 {
			found = panel
			return false
		}
		return true
	})
	return found
}

func locateByPosition(doc *goquery.Document, spec sectionSpec) *goquery.Selection {
	sel := doc.Find("div.panel > " + spec.Container)
	if sel.Length() == 0 {
		return nil
	}
	return sel.First()
}

func locateBySubstring(doc *goquery.Document, spec sectionSpec) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("div.panel").EachWithBreak(func(_ int, panel *goquery.Selection) bool {
		if strings.Contains(panel.Text(), spec.Title) {
			found = panel
			return false
		}
		return true
	})
	return found
}

func locateSection(doc *goquery.Document, spec sectionSpec) *goquery.Selection {
	for _, locate := range sectionLocators {
		if sel := locate(doc, spec); sel != nil && sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// extractSection parses the first table of a located section into a
// SectionReport. Returns ok=false when the section is absent from the
// page; a missing section is not fatal to the overall scrape.
func extractSection(doc *goquery.Document, name, sectionCurrency string) (SectionReport, bool) {
	spec, known := sectionSpecs[name]
	if !known {
		return SectionReport{}, false
	}

	container := locateSection(doc, spec)
	if container == nil {
		return SectionReport{}, false
	}

	table := container.Find("table").First()
	if table.Length() == 0 {
		return SectionReport{}, false
	}

	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CellText(th))
	})

	minCells := 3
	if spec.Registered {
		minCells = 2
	}

	var rows []Row
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			// header row
			return
		}
		cells := tr.Find("td")
		if cells.Length() < minCells {
			return
		}

		period, ok := spec.normalizePeriod(htmlutil.CellText(cells.Eq(0)))
		if !ok {
			return
		}
		count := htmlutil.CellText(cells.Eq(1))

		if spec.Registered {
			rows = append(rows, Row{
				Kind:   RowRegistered,
				Period: period,
				Count:  count,
			})
			return
		}

		negRed := name == "Affiliate Profit & Loss"
		amount, symbol := ResolveAmount(cellAmountText(cells.Eq(2), negRed))
		rows = append(rows, Row{
			Kind:   RowStandard,
			Period: period,
			Count:  count,
			Amount: amount,
			Symbol: symbol,
		})
	})

	if len(rows) == 0 {
		return SectionReport{}, false
	}
	return SectionReport{
		Headers:  headers,
		Rows:     rows,
		Currency: sectionCurrency,
	}, true
}
