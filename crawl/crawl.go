// Package crawl provides site crawling orchestration. It coordinates
// fetching, text normalization, link discovery, and chunking into an
// indexable knowledge snapshot.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitechat"
)

// Crawl defaults.
const (
	// DefaultPageBudget bounds the number of documents per crawl pass.
	DefaultPageBudget = 30
	// DefaultChunkSize is the maximum chunk length in bytes.
	DefaultChunkSize = 1000
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Crawler performs a breadth-first, same-origin crawl of a site and builds
// a knowledge snapshot. Pages are fetched one at a time; a failure on any
// single URL is logged and skipped, never retried.
type Crawler struct {
	Fetcher   sitechat.Fetcher
	Extractor sitechat.Extractor
	Links     sitechat.LinkExtractor

	// Sitemaps, when set, seeds the frontier with sitemap URLs behind
	// the start URL. Discovery failures are non-fatal.
	Sitemaps sitechat.SitemapService

	// Limiter, when set, paces fetches per host.
	Limiter sitechat.DomainLimiter

	Logger *slog.Logger

	PageBudget int
	ChunkSize  int
}

// Crawl traverses the site graph breadth-first starting from startURL,
// bounded by the page budget, and returns the resulting snapshot.
// It fails only on an invalid start URL or a canceled context; per-page
// errors are logged and the crawl moves on.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*sitechat.Snapshot, error) {
	start, origin, err := normalizeStartURL(startURL)
	if err != nil {
		return nil, err
	}

	budget := c.PageBudget
	if budget <= 0 {
		budget = DefaultPageBudget
	}
	chunkSize := c.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(start)
	c.seedFromSitemap(ctx, frontier, origin)

	var docs []*sitechat.Document
	seenHashes := make(map[string]bool)

	for len(docs) < budget {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, links, err := c.processPage(ctx, pageURL, chunkSize)
		if err != nil {
			c.logger().Warn("skipping page", "url", pageURL, "error", err)
			continue
		}

		for _, link := range links {
			frontier.Push(link)
		}

		if doc == nil {
			continue
		}
		if seenHashes[doc.Hash] {
			continue
		}
		seenHashes[doc.Hash] = true
		docs = append(docs, doc)
	}

	return &sitechat.Snapshot{
		Origin:    origin,
		Documents: docs,
		IndexedAt: time.Now().UTC(),
	}, nil
}

// processPage fetches a single URL and returns the document built from it
// plus any same-origin links it references. A nil document with nil error
// means the page was skippable (non-HTML content).
func (c *Crawler) processPage(ctx context.Context, pageURL string, chunkSize int) (*sitechat.Document, []string, error) {
	if c.Limiter != nil {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return nil, nil, err
		}
		if err := c.Limiter.Wait(ctx, parsed.Host); err != nil {
			return nil, nil, err
		}
	}

	page, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}
	if !isHTML(page.ContentType) {
		return nil, nil, nil
	}

	// Links are collected first so they survive an extraction failure.
	links, err := c.Links.ExtractLinks(page.Body, pageURL)
	if err != nil {
		links = nil
	}

	extracted, err := c.Extractor.Extract(page.Body)
	if err != nil {
		return nil, links, err
	}

	doc := &sitechat.Document{
		URL:    pageURL,
		Title:  extracted.Title,
		Text:   extracted.Text,
		Hash:   fmt.Sprintf("%016x", xxhash.Sum64String(extracted.Text)),
		Chunks: sitechat.SplitText(extracted.Text, chunkSize),
	}
	return doc, links, nil
}

// seedFromSitemap enqueues same-origin sitemap URLs behind whatever is
// already queued.
func (c *Crawler) seedFromSitemap(ctx context.Context, frontier *Frontier, origin string) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, origin)
	if err != nil {
		c.logger().Warn("sitemap discovery failed", "origin", origin, "error", err)
		return
	}
	for _, u := range urls {
		if strings.HasPrefix(u, origin) {
			frontier.Push(u)
		}
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// normalizeStartURL validates the start URL and derives the crawl origin.
func normalizeStartURL(rawURL string) (start string, origin string, err error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", sitechat.Errorf(sitechat.EINVALID, "invalid start URL %q: %v", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", sitechat.Errorf(sitechat.EINVALID, "start URL %q must be http or https", rawURL)
	}
	if parsed.Host == "" {
		return "", "", sitechat.Errorf(sitechat.EINVALID, "start URL %q has no host", rawURL)
	}
	parsed.Fragment = ""
	return parsed.String(), parsed.Scheme + "://" + parsed.Host, nil
}

// isHTML reports whether a Content-Type header denotes an HTML page.
// An absent content type is treated as HTML, matching lenient servers.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
