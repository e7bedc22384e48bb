package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"
	"dealwatch-backend/lib/retryutil"
	"dealwatch-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Fetcher is the shared page fetcher: one browser-shaped resty client
// plus the retry policy applied to transient failures. Safe for
// concurrent use, scrapers hold it by pointer.
type Fetcher struct {
	http   *resty.Client
	policy retryutil.Policy
}

func NewFetcher(timeout time.Duration, policy retryutil.Policy) *Fetcher {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	client.SetHeader("Accept-Language", "en-IN,en;q=0.9")
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "services/scraper/http")

	return &Fetcher{
		http:   client,
		policy: policy,
	}
}

// GetDocument fetches a page and parses it. Connection failures,
// timeouts and 5xx responses are retried per the policy; a 4xx or a
// body the parser rejects is not, that is a terminal failure for this
// fetch only.
func (f *Fetcher) GetDocument(ctx context.Context, url string) (*goquery.Document, string, error) {
	var res *resty.Response
	err := f.policy.Do(ctx, "fetch "+url, func(ctx context.Context) error {
		r, err := f.http.R().
			SetContext(ctx).
			Get(url)
		if err != nil {
			return retryutil.Transient(err)
		}
		if r.StatusCode() >= 500 {
			return retryutil.Transient(fmt.Errorf("server error: %d", r.StatusCode()))
		}
		if r.StatusCode() >= 400 {
			return fmt.Errorf("request rejected: %d", r.StatusCode())
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", url, err)
	}

	finalURL := url
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}
	return doc, finalURL, nil
}
