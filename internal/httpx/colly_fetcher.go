package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

// CollyFetcher wraps Colly for polite HTML fetching. HTML adapters use it
// to pull board pages and parse them with goquery.
type CollyFetcher struct {
	userAgent    string
	timeout      time.Duration
	defaultRate  rate.Limit
	defaultBurst int

	mu    sync.Mutex
	hosts map[string]*hostPolicy
}

type hostPolicy struct {
	limiter     *rate.Limiter
	mu          sync.Mutex
	nextAllowed time.Time
}

func NewCollyFetcher(userAgent string) *CollyFetcher {
	return &CollyFetcher{
		userAgent:    userAgent,
		timeout:      15 * time.Second,
		defaultRate:  rate.Every(time.Second),
		defaultBurst: 2,
		hosts:        map[string]*hostPolicy{},
	}
}

// FetchDocument fetches rawURL and returns the parsed HTML document.
func (f *CollyFetcher) FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, _, err := f.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	return doc, nil
}

// FetchBytes fetches rawURL with per-host rate limiting and retry on
// retryable statuses, returning the raw body and final status.
func (f *CollyFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, int, error) {
	if rawURL == "" {
		return nil, 0, errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	host := u.Hostname()

	var body []byte
	var status int
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if ctx.Err() != nil {
			return nil, status, ctx.Err()
		}
		if err := f.waitForHost(ctx, host); err != nil {
			return nil, status, err
		}
		body, status, lastErr = f.fetchOnce(ctx, u.String())
		if lastErr == nil {
			return body, status, nil
		}
		if IsRetryableStatus(status) {
			f.applyBackoff(host, attempt)
			continue
		}
		return nil, status, &FetchError{Status: status, Err: lastErr}
	}
	return nil, status, &FetchError{Status: status, Err: lastErr}
}

func (f *CollyFetcher) fetchOnce(ctx context.Context, target string) ([]byte, int, error) {
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.IgnoreRobotsTxt = false
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var body []byte
	status := 0
	var reqErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	if err := c.Visit(target); err != nil {
		return nil, status, err
	}
	if reqErr != nil {
		return nil, status, reqErr
	}
	if status >= 400 {
		return nil, status, fmt.Errorf("status %d", status)
	}
	return body, status, nil
}

func (f *CollyFetcher) waitForHost(ctx context.Context, host string) error {
	policy := f.policyFor(host)

	policy.mu.Lock()
	wait := time.Until(policy.nextAllowed)
	policy.mu.Unlock()
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return policy.limiter.Wait(ctx)
}

func (f *CollyFetcher) policyFor(host string) *hostPolicy {
	if host == "" {
		host = "default"
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if policy, ok := f.hosts[host]; ok {
		return policy
	}
	policy := &hostPolicy{limiter: rate.NewLimiter(f.defaultRate, f.defaultBurst)}
	f.hosts[host] = policy
	return policy
}

func (f *CollyFetcher) applyBackoff(host string, attempt int) {
	if attempt < 0 {
		attempt = 0
	}
	policy := f.policyFor(host)
	delay := time.Duration(500*(1<<attempt)) * time.Millisecond
	policy.mu.Lock()
	next := time.Now().Add(delay)
	if next.After(policy.nextAllowed) {
		policy.nextAllowed = next
	}
	policy.mu.Unlock()
}

// IsRetryableStatus reports whether an HTTP status signals a transient
// upstream condition worth another attempt.
func IsRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
