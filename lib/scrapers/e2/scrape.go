package e2

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"affdash-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// parseSnapshot extracts one currency context's snapshot from a
// rendered dashboard document. Failures below section granularity are
// logged and absorbed; the snapshot degrades instead of failing.
func parseSnapshot(ctx context.Context, doc *goquery.Document) Snapshot {
	snapshot := Snapshot{
		Sections: map[string]SectionReport{},
	}

	thisPlayers := doc.Find("#thisPeriodActivePlayer")
	lastPlayers := doc.Find("#lastPeriodActivePlayer")
	if thisPlayers.Length() > 0 && lastPlayers.Length() > 0 {
		snapshot.ActivePlayers = PeriodPair{
			ThisPeriod: htmlutil.CellText(thisPlayers),
			LastPeriod: htmlutil.CellText(lastPlayers),
		}
	} else {
		slog.WarnContext(ctx, "could not scrape active players")
	}

	thisComm := doc.Find("#thisPeriodCommission")
	lastComm := doc.Find("#lastPeriodCommission")
	if thisComm.Length() > 0 && lastComm.Length() > 0 {
		thisText := htmlutil.CellText(thisComm)
		snapshot.Commissions = Commissions{
			ThisPeriod: thisText,
			LastPeriod: htmlutil.CellText(lastComm),
			Currency:   CommissionCurrency(thisText),
		}
	} else {
		slog.WarnContext(ctx, "could not scrape commissions")
	}

	userInfo := doc.Find(".user-info")
	if userInfo.Length() > 0 {
		money := userInfo.Find(".money")
		symbol := htmlutil.CellText(money.Find("#navBarMoney"))
		amount := htmlutil.CellText(money.Find("#navBarAvailable"))
		if symbol != "" || amount != "" {
			snapshot.Withdrawable = strings.TrimSpace(fmt.Sprintf("%s %s", symbol, amount))
		}
	} else {
		slog.WarnContext(ctx, "could not scrape withdrawable amount")
	}

	for _, name := range SectionNames {
		section, ok := extractSection(doc, name, snapshot.Commissions.Currency)
		if !ok {
			slog.WarnContext(ctx, "section not found", "section", name)
			continue
		}
		snapshot.Sections[name] = section
	}

	return snapshot
}

// ScrapeSnapshot extracts the snapshot of the currently active
// currency context.
func (c *Client) ScrapeSnapshot(ctx context.Context) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "client:ScrapeSnapshot")
	defer span.End()

	doc, err := c.document()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot dashboard html")
		return Snapshot{}, err
	}
	return parseSnapshot(ctx, doc), nil
}

// dashboard is the slice of Client the aggregation loop drives,
// separated so the loop's branching can run against a fake.
type dashboard interface {
	ListCurrencies(ctx context.Context) ([]CurrencyOption, error)
	SwitchCurrency(ctx context.Context, value string) error
	ScrapeSnapshot(ctx context.Context) (Snapshot, error)
}

// collectReport walks every enumerated currency in listed order and
// collects one snapshot per successful context switch. Currencies are
// processed sequentially; they share the one authenticated session and
// mutate the dashboard's active-currency state.
func collectReport(ctx context.Context, d dashboard) (Report, error) {
	currencies, err := d.ListCurrencies(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{Snapshots: map[string]Snapshot{}}

	if len(currencies) == 0 {
		slog.InfoContext(ctx, "no currencies found, scraping default")
		snapshot, err := d.ScrapeSnapshot(ctx)
		if err != nil {
			return Report{}, err
		}
		report.Currencies = []string{DefaultCurrency}
		report.Snapshots[DefaultCurrency] = snapshot
		return report, nil
	}

	for _, currency := range currencies {
		slog.InfoContext(ctx, "scraping currency", "label", currency.Label)

		err := d.SwitchCurrency(ctx, currency.Value)
		if err != nil {
			slog.ErrorContext(ctx, "failed to change currency, skipping", "label", currency.Label, "err", err)
			report.Skipped = append(report.Skipped, currency.Label)
			continue
		}

		snapshot, err := d.ScrapeSnapshot(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to scrape currency, skipping", "label", currency.Label, "err", err)
			report.Skipped = append(report.Skipped, currency.Label)
			continue
		}

		report.Currencies = append(report.Currencies, currency.Label)
		report.Snapshots[currency.Label] = snapshot
	}

	return report, nil
}

// ScrapeAllCurrencies aggregates one snapshot per currency of the
// authenticated session.
func (c *Client) ScrapeAllCurrencies(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "client:ScrapeAllCurrencies")
	defer span.End()

	report, err := collectReport(ctx, c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to aggregate currencies")
		return Report{}, err
	}

	span.SetAttributes(attribute.Int("currency_count", len(report.Currencies)+len(report.Skipped)))
	return report, nil
}
