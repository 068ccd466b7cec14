package e2

import (
	"context"
	"fmt"
	"time"

	"affdash-backend/lib/browser"
	"affdash-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

var probeClient = newProbeClient()

func newProbeClient() *resty.Client {
	client := resty.New()
	client.SetHeader("user-agent", browser.DefaultUserAgent)
	client.SetTimeout(time.Second * 10)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "scrapers/e2/probe")
	return client
}

// Probe checks that the login endpoint answers at all, without
// spending a browser session on it. Distinguishes "site is down" from
// "driver unavailable" before an operator waits out a full login
// timeout.
func Probe(ctx context.Context) error {
	res, err := probeClient.R().
		SetContext(ctx).
		Get(LoginURL)
	if err != nil {
		return fmt.Errorf("dashboard unreachable: %w", err)
	}
	if res.StatusCode() >= 500 {
		return fmt.Errorf("dashboard unhealthy: status %d", res.StatusCode())
	}
	return nil
}
