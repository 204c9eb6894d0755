// Package preview resolves Open Graph preview images for external pages.
package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/linkstash/linkstash-server/internal/ratelimit"
)

const (
	// Rate limit: 1 request per second per host, burst of 3.
	defaultRPS   = 1.0
	defaultBurst = 3

	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 2 << 20 // 2 MiB
	defaultUserAgent    = "linkstash/1.0"
)

// Options configures a Resolver. Zero values fall back to defaults.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	RPS          float64
	Burst        int
	UserAgent    string
}

// Resolver fetches external pages and extracts their og:image URL.
// Requests are rate limited per host so a burst of preview lookups
// against one site does not hammer it.
type Resolver struct {
	http         *http.Client
	limiter      *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
	maxBodyBytes int64
	userAgent    string
}

// New creates a preview resolver.
func New(logger *slog.Logger, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.RPS <= 0 {
		opts.RPS = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	return &Resolver{
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:      ratelimit.New(opts.RPS, opts.Burst),
		logger:       logger,
		maxBodyBytes: opts.MaxBodyBytes,
		userAgent:    opts.UserAgent,
	}
}

// Resolve fetches the page at rawURL and returns its og:image URL.
// Returns an empty string when the page has no og:image tag. Network
// and parse failures are returned as errors; callers treat both the
// empty string and an error as "no preview available".
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", target.Scheme)
	}
	if target.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}

	if err := r.limiter.Wait(ctx, target.Host); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", r.userAgent)

	r.logger.Debug("preview fetch", "host", target.Host, "url", target.String())

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	// Error pages can still carry Open Graph tags, so the body is
	// parsed regardless of status code.
	body := io.LimitReader(resp.Body, r.maxBodyBytes)

	image, err := extractOGImage(body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	return image, nil
}

// Close releases resources held by the resolver.
func (r *Resolver) Close() {
	r.limiter.Stop()
}

// extractOGImage walks the parsed HTML for a meta tag declaring
// og:image via either the property or name attribute. The first
// non-empty content wins.
func extractOGImage(body io.Reader) (string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return "", err
	}

	var image string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if image != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			if content, ok := ogImageContent(n); ok {
				image = content
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return image, nil
}

func ogImageContent(n *html.Node) (string, bool) {
	var isOGImage bool
	var content string
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "property", "name":
			if strings.EqualFold(attr.Val, "og:image") {
				isOGImage = true
			}
		case "content":
			content = strings.TrimSpace(attr.Val)
		}
	}
	if isOGImage && content != "" {
		return content, true
	}
	return "", false
}
