// Package roster fetches and presents member pages from a static asset host.
//
// A member page is self-authored content: raw markup at
// <base>/<slug>/index.html and an optional stylesheet at
// <base>/<slug>/style.css. The roster itself is a JSON array of slugs at
// <base>/<indexpath>. Content is trusted as authored and is never validated
// or rewritten here.
package roster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/antonholmquist/jason"
	gocache "github.com/patrickmn/go-cache"

	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/errors"
	"github.com/quiltring/quiltring/internal/httpclient"
	"github.com/quiltring/quiltring/internal/logging"
	"github.com/quiltring/quiltring/internal/observability/metrics"
)

// Resource kinds, used for metrics labels and logging.
const (
	resourceIndex      = "index"
	resourceMarkup     = "markup"
	resourceStylesheet = "stylesheet"
)

const (
	markupFile     = "index.html"
	stylesheetFile = "style.css"
)

// PageContent holds one member's self-authored page.
// Stylesheet is empty when the member has no stylesheet.
type PageContent struct {
	Markup     string
	Stylesheet string
}

// Client fetches roster resources from the static asset host.
// Thread-safe for concurrent use.
type Client struct {
	httpClient *httpclient.Client
	baseURL    string
	indexPath  string
	cache      *gocache.Cache // nil when caching is disabled
	metrics    *metrics.RosterMetrics
	logger     *slog.Logger
}

// NewClient creates a roster client for the configured static host.
// Metrics may be nil, in which case no metrics are recorded.
func NewClient(settings *conf.RosterSettings, m *metrics.RosterMetrics) *Client {
	httpCfg := httpclient.DefaultConfig()
	if settings.FetchTimeout > 0 {
		httpCfg.DefaultTimeout = settings.FetchTimeout
	}

	var cache *gocache.Cache
	if settings.CacheTTL > 0 {
		cache = gocache.New(settings.CacheTTL, 2*settings.CacheTTL)
	}

	logger := logging.ForService("roster")
	if logger == nil {
		logger = slog.Default()
	}

	hc := httpclient.New(&httpCfg)
	hc.SetBeforeRequestHook(func(req *http.Request) {
		logging.Trace("Fetching roster resource", "url", req.URL.String())
	})

	return &Client{
		httpClient: hc,
		baseURL:    strings.TrimRight(settings.BaseURL, "/"),
		indexPath:  strings.TrimLeft(settings.IndexPath, "/"),
		cache:      cache,
		metrics:    m,
		logger:     logger,
	}
}

// IndexURL returns the URL of the member index.
func (c *Client) IndexURL() string {
	return c.baseURL + "/" + c.indexPath
}

// MarkupURL returns the URL of a member's markup document.
func (c *Client) MarkupURL(slug string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, slug, markupFile)
}

// StylesheetURL returns the URL of a member's stylesheet.
func (c *Client) StylesheetURL(slug string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, slug, stylesheetFile)
}

// StdClient returns the underlying standard library HTTP client.
func (c *Client) StdClient() *http.Client {
	return c.httpClient.StdClient()
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() {
	c.httpClient.Close()
}

// FetchIndex fetches and parses the member index, a JSON array of slugs.
// The order of the returned slugs is display order. An empty array is a
// valid, successful result. Any transport, status or parse failure is
// terminal for the caller's list view.
func (c *Client) FetchIndex(ctx context.Context) ([]string, error) {
	body, err := c.fetch(ctx, resourceIndex, c.IndexURL())
	if err != nil {
		return nil, err
	}

	value, err := jason.NewValueFromBytes(body)
	if err != nil {
		return nil, errors.New(err).
			Component("roster").
			Category(errors.CategoryRosterIndex).
			Context("url", c.IndexURL()).
			Context("operation", "parse_index").
			Build()
	}

	items, err := value.Array()
	if err != nil {
		return nil, errors.Newf("member index is not a JSON array").
			Component("roster").
			Category(errors.CategoryRosterIndex).
			Context("url", c.IndexURL()).
			Build()
	}

	slugs := make([]string, 0, len(items))
	for i, item := range items {
		slug, err := item.String()
		if err != nil {
			return nil, errors.Newf("member index entry %d is not a string", i).
				Component("roster").
				Category(errors.CategoryRosterIndex).
				Context("url", c.IndexURL()).
				Context("entry", i).
				Build()
		}
		slugs = append(slugs, slug)
	}

	return slugs, nil
}

// FetchMarkup fetches a member's markup document. A failure here is fatal to
// the member's page view; the returned error names the missing resource.
func (c *Client) FetchMarkup(ctx context.Context, slug string) (string, error) {
	body, err := c.fetch(ctx, resourceMarkup, c.MarkupURL(slug))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchStylesheet fetches a member's stylesheet. Callers treat a failure as
// non-fatal: the page renders without styling and the failure is surfaced
// only through logs and metrics, never to the visitor.
func (c *Client) FetchStylesheet(ctx context.Context, slug string) (string, error) {
	body, err := c.fetch(ctx, resourceStylesheet, c.StylesheetURL(slug))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// fetch retrieves one resource, consulting the response cache when enabled.
// Only successful responses are cached.
func (c *Client) fetch(ctx context.Context, resource, url string) ([]byte, error) {
	if c.cache != nil {
		if cached, found := c.cache.Get(url); found {
			if c.metrics != nil {
				c.metrics.RecordCacheHit(resource)
			}
			return cached.([]byte), nil
		}
		if c.metrics != nil {
			c.metrics.RecordCacheMiss(resource)
		}
	}

	start := time.Now()
	body, err := c.fetchRemote(ctx, resource, url)
	if c.metrics != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		c.metrics.RecordFetch(resource, result, time.Since(start).Seconds())
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.SetDefault(url, body)
	}
	return body, nil
}

func (c *Client) fetchRemote(ctx context.Context, resource, url string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, errors.New(err).
			Component("roster").
			Category(errors.CategoryNetwork).
			Context("resource", resource).
			Context("url", url).
			Build()
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("Failed to close response body", "error", closeErr, "url", url)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.Newf("fetching %s returned status %d", url, resp.StatusCode).
			Component("roster").
			Category(c.categoryFor(resource)).
			Context("resource", resource).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Build()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(err).
			Component("roster").
			Category(errors.CategoryNetwork).
			Context("resource", resource).
			Context("url", url).
			Context("operation", "read_response_body").
			Build()
	}

	return body, nil
}

func (c *Client) categoryFor(resource string) errors.ErrorCategory {
	if resource == resourceIndex {
		return errors.CategoryRosterIndex
	}
	return errors.CategoryPageFetch
}
