package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrDriverUnavailable means the environment could not produce a
// browser at all. Not retryable within a single operation.
var ErrDriverUnavailable = errors.New("browser driver unavailable")

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

// the dashboard sniffs for automation, so the webdriver flag has to go
// before any page scripts get a chance to run.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

type Options struct {
	// Headless defaults to true; flip off for local debugging only.
	Headful   bool
	UserAgent string
}

// Session owns one isolated browser process. Every exit path of the
// owning operation must call Close, typically via defer.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

func NewSession(parent context.Context, opts Options) (*Session, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-features", "IsolateOrigins,site-per-process"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(ua),
	}
	if !opts.Headful {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:     tabCtx,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
	}

	// the first Run starts the browser process; failure here is the
	// driver-unavailable case and is surfaced immediately, no retry.
	err := chromedp.Run(tabCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.Close()
		slog.ErrorContext(parent, "driver creation failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrDriverUnavailable, err)
	}

	return s, nil
}

// Context is the browser tab context; chromedp actions run against it.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Run(actions ...chromedp.Action) error {
	return chromedp.Run(s.ctx, actions...)
}

// RunTimeout runs actions under a bounded deadline. All waits in the
// pipeline go through here; there is no unbounded wait anywhere.
func (s *Session) RunTimeout(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}
