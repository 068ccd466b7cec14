package e2

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot(t *testing.T) {
	doc := loadFixture(t)
	snapshot := parseSnapshot(context.Background(), doc)

	diff := cmp.Diff(PeriodPair{
		ThisPeriod: "42",
		LastPeriod: "37",
	}, snapshot.ActivePlayers)
	require.Empty(t, diff)

	diff = cmp.Diff(Commissions{
		ThisPeriod: "$1,234.56",
		LastPeriod: "$987.65",
		Currency:   "$",
	}, snapshot.Commissions)
	require.Empty(t, diff)

	require.Equal(t, "$ 1,520.00", snapshot.Withdrawable)

	require.Len(t, snapshot.Sections, len(SectionNames))
	for _, name := range SectionNames {
		section, ok := snapshot.Sections[name]
		require.True(t, ok, name)
		require.Equal(t, "$", section.Currency, name)
		require.NotEmpty(t, section.Rows, name)
	}
}

func TestParseSnapshotEmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><p>maintenance</p></body></html>`))
	require.NoError(t, err)

	snapshot := parseSnapshot(context.Background(), doc)
	require.Empty(t, snapshot.ActivePlayers.ThisPeriod)
	require.Empty(t, snapshot.Commissions.Currency)
	require.Empty(t, snapshot.Withdrawable)
	require.Empty(t, snapshot.Sections)
}

type fakeDashboard struct {
	currencies []CurrencyOption
	failSwitch map[string]bool
	failScrape map[string]bool
	active     string
}

func (f *fakeDashboard) ListCurrencies(ctx context.Context) ([]CurrencyOption, error) {
	return f.currencies, nil
}

func (f *fakeDashboard) SwitchCurrency(ctx context.Context, value string) error {
	if f.failSwitch[value] {
		return ErrSwitchFailed
	}
	f.active = value
	return nil
}

func (f *fakeDashboard) ScrapeSnapshot(ctx context.Context) (Snapshot, error) {
	if f.failScrape[f.active] {
		return Snapshot{}, ErrLoginFailed
	}
	return Snapshot{Withdrawable: "active:" + f.active}, nil
}

func TestCollectReportNoCurrencySelector(t *testing.T) {
	report, err := collectReport(context.Background(), &fakeDashboard{})
	require.NoError(t, err)

	require.Equal(t, []string{DefaultCurrency}, report.Currencies)
	require.Len(t, report.Snapshots, 1)
	require.Contains(t, report.Snapshots, DefaultCurrency)
	require.Empty(t, report.Skipped)
}

func TestCollectReportSkipsFailedSwitch(t *testing.T) {
	fake := &fakeDashboard{
		currencies: []CurrencyOption{
			{Value: "1", Label: "USD"},
			{Value: "2", Label: "EUR"},
			{Value: "3", Label: "GBP"},
		},
		failSwitch: map[string]bool{"2": true},
	}

	report, err := collectReport(context.Background(), fake)
	require.NoError(t, err)

	// enumeration order survives, the failed switch only lands in
	// Skipped and never pollutes the snapshot map
	require.Equal(t, []string{"USD", "GBP"}, report.Currencies)
	require.Equal(t, []string{"EUR"}, report.Skipped)
	require.NotContains(t, report.Snapshots, "EUR")
	require.Equal(t, "active:1", report.Snapshots["USD"].Withdrawable)
	require.Equal(t, "active:3", report.Snapshots["GBP"].Withdrawable)
}

func TestCollectReportSkipsFailedSnapshot(t *testing.T) {
	fake := &fakeDashboard{
		currencies: []CurrencyOption{
			{Value: "1", Label: "USD"},
			{Value: "2", Label: "EUR"},
		},
		failScrape: map[string]bool{"2": true},
	}

	report, err := collectReport(context.Background(), fake)
	require.NoError(t, err)

	require.Equal(t, []string{"USD"}, report.Currencies)
	require.Equal(t, []string{"EUR"}, report.Skipped)
}

func TestParseCurrencyOptions(t *testing.T) {
	doc := loadFixture(t)

	options := parseCurrencyOptions(doc)
	diff := cmp.Diff([]CurrencyOption{
		{Value: "1", Label: "USD"},
		{Value: "2", Label: "EUR"},
	}, options)
	require.Empty(t, diff)
}

func TestParseCurrencyOptionsAbsent(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body></body></html>`))
	require.NoError(t, err)

	require.Empty(t, parseCurrencyOptions(doc))
}
