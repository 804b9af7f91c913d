// Package embed fetches Open Graph metadata for third-party links
// server-side, so listing pages can show link previews without exposing
// browser clients to cross-origin fetches.
package embed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/cache"
)

const (
	fetchTimeout = 5 * time.Second
	maxBodyBytes = 512 * 1024
	cacheTTL     = 15 * time.Minute
)

// Preview is the extracted metadata for one link.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
}

// Client errors a handler can map to 4xx: a fetch attempt against a host
// outside the allow list, or a URL that is not a usable https address.
var (
	ErrHostNotAllowed = fmt.Errorf("host not allowed")
	ErrInvalidURL     = fmt.Errorf("invalid embed URL")
)

// defaultAllowedHosts are the platforms venues commonly link from.
var defaultAllowedHosts = []string{
	"www.instagram.com",
	"instagram.com",
	"www.tiktok.com",
	"tiktok.com",
	"www.youtube.com",
	"youtube.com",
	"youtu.be",
	"www.facebook.com",
	"facebook.com",
}

// Fetcher retrieves and caches link previews.
type Fetcher struct {
	client  *http.Client
	cache   *cache.TTLCache
	allowed map[string]bool
	logger  *slog.Logger
}

// NewFetcher creates a fetcher with the default allow list. Extra hosts
// extend, not replace, the defaults.
func NewFetcher(logger *slog.Logger, extraHosts ...string) *Fetcher {
	allowed := make(map[string]bool, len(defaultAllowedHosts)+len(extraHosts))
	for _, h := range defaultAllowedHosts {
		allowed[h] = true
	}
	for _, h := range extraHosts {
		allowed[strings.ToLower(h)] = true
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		cache:   cache.New(cacheTTL),
		allowed: allowed,
		logger:  logger,
	}
}

// Fetch returns the preview for a URL, served from cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Preview, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if !f.allowed[strings.ToLower(parsed.Host)] {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, parsed.Host)
	}

	value, err := f.cache.GetOrLoad(ctx, parsed.String(), func(ctx context.Context) (interface{}, error) {
		return f.fetchPreview(ctx, parsed.String())
	})
	if err != nil {
		return nil, err
	}
	preview, ok := value.(*Preview)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry type %T", value)
	}
	return preview, nil
}

func (f *Fetcher) fetchPreview(ctx context.Context, target string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building embed request: %w", err)
	}
	req.Header.Set("User-Agent", "partypanther-embed/1.0")
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching embed target: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed target returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading embed body: %w", err)
	}

	preview := ParsePreview(target, string(body))
	f.logger.Debug("embed preview fetched",
		"url", target,
		"duration_ms", time.Since(start).Milliseconds(),
		"has_title", preview.Title != "")

	return preview, nil
}

var metaTagPattern = regexp.MustCompile(`(?is)<meta\s+[^>]*>`)
var attrPattern = regexp.MustCompile(`(?is)(property|name|content)\s*=\s*"([^"]*)"`)

// ParsePreview extracts Open Graph tags from an HTML document. A page
// without OG tags falls back to its <title>.
func ParsePreview(target, html string) *Preview {
	preview := &Preview{URL: target}

	for _, tag := range metaTagPattern.FindAllString(html, -1) {
		var key, content string
		for _, attr := range attrPattern.FindAllStringSubmatch(tag, -1) {
			switch strings.ToLower(attr[1]) {
			case "property", "name":
				key = strings.ToLower(attr[2])
			case "content":
				content = attr[2]
			}
		}
		if content == "" {
			continue
		}
		switch key {
		case "og:title":
			preview.Title = content
		case "og:description", "description":
			if preview.Description == "" || key == "og:description" {
				preview.Description = content
			}
		case "og:image":
			preview.Image = content
		case "og:site_name":
			preview.SiteName = content
		}
	}

	if preview.Title == "" {
		if m := regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`).FindStringSubmatch(html); m != nil {
			preview.Title = strings.TrimSpace(m[1])
		}
	}

	return preview
}
