package e2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"affdash-backend/lib/browser"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/e2")

const (
	LoginURL     = "https://e2.partners/page/affiliate/login.jsp"
	DashboardURL = "https://e2.partners/page/affiliate/index.jsp"
)

// ErrLoginFailed covers both "form never became interactive" and
// "submitted but dashboard never loaded"; the dashboard gives no
// structured error signal so the two only differ in the logs.
var ErrLoginFailed = errors.New("failed to login to the dashboard")

const (
	loginTimeout   = 15 * time.Second
	pageTimeout    = 20 * time.Second
	elementTimeout = 10 * time.Second
	pollInterval   = 500 * time.Millisecond
)

// runner is the slice of browser.Session the client needs. Kept
// narrow so login and aggregation logic can be driven without a
// browser in tests.
type runner interface {
	Run(actions ...chromedp.Action) error
	RunTimeout(timeout time.Duration, actions ...chromedp.Action) error
}

// Client drives one authenticated browser session against the
// dashboard. Never share a Client across concurrent operations; the
// active currency is server-side state.
type Client struct {
	session runner
}

func NewClient(session *browser.Session) *Client {
	return &Client{session: session}
}

// Login navigates to the login endpoint, clears prior cookies, fills
// the credential form and blocks until the browser lands on the
// authenticated dashboard. One attempt per call, no retry.
func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	err := c.session.RunTimeout(pageTimeout,
		network.ClearBrowserCookies(),
		chromedp.Navigate(LoginURL),
		chromedp.Sleep(time.Second),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open login page")
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	err = c.session.RunTimeout(loginTimeout,
		chromedp.WaitVisible(`input[name="userId"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="userId"]`, username, chromedp.ByQuery),
		chromedp.WaitVisible(`input[name="password"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="password"]`, password, chromedp.ByQuery),
		chromedp.Click(`#login`, chromedp.ByQuery),
	)
	if err != nil {
		slog.WarnContext(ctx, "login form never became interactive", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "login form not interactive")
		return ErrLoginFailed
	}

	err = c.waitLocationContains(ctx, "index.jsp", pageTimeout)
	if err != nil {
		slog.WarnContext(ctx, "dashboard never loaded after submit", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard did not load")
		return ErrLoginFailed
	}

	err = c.session.RunTimeout(pageTimeout,
		chromedp.WaitVisible(`div.panel`, chromedp.ByQuery),
	)
	if err != nil {
		slog.WarnContext(ctx, "dashboard panels never rendered", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard panels missing")
		return ErrLoginFailed
	}

	return nil
}

// waitLocationContains polls the browser location until it contains
// substr. Bounded; the poll is the only way to observe the redirect
// since the dashboard navigates via javascript.
func (c *Client) waitLocationContains(ctx context.Context, substr string, timeout time.Duration) error {
	deadline := time.After(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var loc string
		err := c.session.RunTimeout(elementTimeout, chromedp.Location(&loc))
		if err != nil {
			return err
		}
		if strings.Contains(loc, substr) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("timed out waiting for location to contain %q, last %q", substr, loc)
		case <-ticker.C:
		}
	}
}

// document snapshots the rendered page once and hands it to goquery,
// so all parsing happens against one consistent view of the DOM.
func (c *Client) document() (*goquery.Document, error) {
	var html string
	err := c.session.RunTimeout(elementTimeout,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBufferString(html))
}
