// Package collyfetcher implements the page fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar-crawler/internal/ingest"
)

// defaultUserAgent is a browser identifier; the source site rejects default
// HTTP client strings outright.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// Config controls collector and retry behavior.
type Config struct {
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     uint64
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Fetcher performs single-page GETs through a cloned colly collector per
// attempt, retrying transient failures with jittered exponential backoff.
// Client errors (4xx) are permanent: the site is refusing, not flaking.
type Fetcher struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Fetcher.
func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = 250 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 2 * time.Second
	}

	c := colly.NewCollector(colly.Async(false), colly.UserAgent(cfg.UserAgent))
	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &Fetcher{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
		logger:        logger,
	}
}

// Fetch executes one HTTP GET, returning the page body on a 200 response.
// Failures come back as *ingest.FetchError after retries are exhausted.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.cfg.BackoffInitial
	bo.MaxInterval = f.cfg.BackoffMax
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, f.cfg.MaxRetries), ctx)

	var body []byte
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		b, status, err := f.fetchOnce(ctx, pageURL)
		if err == nil && status == http.StatusOK && len(b) > 0 {
			body = b
			return nil
		}

		fetchErr := &ingest.FetchError{URL: pageURL, StatusCode: status, Err: err}
		if status >= 400 && status < 500 {
			return backoff.Permanent(fetchErr)
		}
		f.logger.Debug("fetch attempt failed",
			zap.String("url", pageURL),
			zap.Int("attempt", attempt),
			zap.Int("status", status),
			zap.Error(err),
		)
		return fetchErr
	}, policy)
	if err != nil {
		var fe *ingest.FetchError
		if errors.As(err, &fe) {
			return nil, fe
		}
		return nil, &ingest.FetchError{URL: pageURL, Err: err}
	}
	return body, nil
}

// fetchOnce runs a single collector visit. Clone shares the visited-URL
// store, so revisits must be allowed or retrying the same URL would fail
// with an already-visited error instead of hitting the network again.
func (f *Fetcher) fetchOnce(ctx context.Context, pageURL string) (body []byte, status int, err error) {
	collector := f.baseCollector.Clone()
	collector.UserAgent = f.cfg.UserAgent
	collector.IgnoreRobotsTxt = true
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.WithTransport(f.transport)

	var fetchErr error
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case visitErr := <-done:
		if fetchErr != nil {
			return nil, status, fetchErr
		}
		if visitErr != nil {
			return nil, status, visitErr
		}
		return body, status, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
