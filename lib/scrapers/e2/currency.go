package e2

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"affdash-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/codes"
)

var ErrSwitchFailed = errors.New("failed to switch dashboard currency")

// the dashboard refreshes its widgets asynchronously after a currency
// switch with no observable completion signal, so a conservative
// settle delay substitutes for one.
const currencySettleDelay = time.Second

// ListCurrencies enumerates the currency selector. Accounts without a
// selector yield an empty slice; callers treat those as one implicit
// DEFAULT currency. Stable for the session's lifetime.
func (c *Client) ListCurrencies(ctx context.Context) ([]CurrencyOption, error) {
	ctx, span := tracer.Start(ctx, "client:ListCurrencies")
	defer span.End()

	err := c.session.RunTimeout(elementTimeout,
		chromedp.WaitReady(`#dashboardCurrency`, chromedp.ByQuery),
	)
	if err != nil {
		slog.InfoContext(ctx, "no currency selector on dashboard", "err", err)
		return nil, nil
	}

	doc, err := c.document()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot dashboard")
		return nil, err
	}

	return parseCurrencyOptions(doc), nil
}

func parseCurrencyOptions(doc *goquery.Document) []CurrencyOption {
	var options []CurrencyOption
	doc.Find("select#dashboardCurrency option").Each(func(_ int, opt *goquery.Selection) {
		options = append(options, CurrencyOption{
			Value: opt.AttrOr("value", ""),
			Label: htmlutil.CellText(opt),
		})
	})
	return options
}

// SwitchCurrency selects the option by value, blocks until the
// commission element is present again and then waits out the settle
// delay so dependent widgets catch up.
func (c *Client) SwitchCurrency(ctx context.Context, value string) error {
	ctx, span := tracer.Start(ctx, "client:SwitchCurrency")
	defer span.End()

	js := fmt.Sprintf(`(() => {
		const el = document.querySelector('#dashboardCurrency');
		if (!el) return false;
		el.value = %q;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return el.value === %q;
	})()`, value, value)

	var selected bool
	err := c.session.RunTimeout(elementTimeout, chromedp.Evaluate(js, &selected))
	if err != nil || !selected {
		slog.ErrorContext(ctx, "error changing currency", "value", value, "err", err)
		span.SetStatus(codes.Error, "select by value failed")
		return ErrSwitchFailed
	}

	err = c.session.RunTimeout(elementTimeout,
		chromedp.WaitVisible(`#thisPeriodCommission`, chromedp.ByQuery),
	)
	if err != nil {
		slog.ErrorContext(ctx, "commission element missing after currency switch", "value", value, "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "commission element missing")
		return ErrSwitchFailed
	}

	err = c.session.Run(chromedp.Sleep(currencySettleDelay))
	if err != nil {
		return ErrSwitchFailed
	}
	return nil
}
