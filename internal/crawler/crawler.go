// Package crawler runs the bounded same-domain BFS that feeds page tallies
// into a site-wide audit report.
package crawler

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/glowstarlabs/alttext-audit/internal/insights"
	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/metrics"
	"github.com/glowstarlabs/alttext-audit/internal/model"
	"github.com/glowstarlabs/alttext-audit/internal/urlutil"
)

// PageSink receives the raw body of every successfully fetched page, in crawl
// order. Used to capture snapshots for audit history; nil sinks are skipped.
type PageSink func(url string, body []byte)

type Crawler struct {
	cfg     Config
	client  interfaces.WebClient
	scanner interfaces.Scanner
	sink    PageSink
	logger  interfaces.Logger
}

type Option func(*Crawler)

// WithPageSink attaches a snapshot sink to the crawl.
func WithPageSink(sink PageSink) Option {
	return func(c *Crawler) { c.sink = sink }
}

func NewCrawler(cfg Config, client interfaces.WebClient, scanner interfaces.Scanner, logger interfaces.Logger, opts ...Option) *Crawler {
	c := &Crawler{
		cfg:     cfg,
		client:  client,
		scanner: scanner,
		logger:  logger.With(interfaces.Field{Key: "component", Value: "crawler"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzeSite crawls breadth-first from seed, visiting at most maxPages
// same-domain pages, and aggregates per-page tallies into a site report.
// Individual page failures are logged and skipped; only an unusable seed URL
// or a cancelled context fails the whole crawl.
func (c *Crawler) AnalyzeSite(ctx context.Context, seed string, maxPages int) (*model.SiteReport, error) {
	start := time.Now()

	if maxPages <= 0 {
		maxPages = c.cfg.DefaultMaxPages
	}

	root, err := urlutil.New(seed)
	if err != nil {
		metrics.IncAudit("failure")
		return nil, err
	}
	domain := root.URL.Hostname()
	seedNorm := root.URL.String()

	queueCap := maxPages * c.cfg.QueueFactor

	visited := make(map[string]struct{}, maxPages)
	queue := []string{seedNorm}
	var pages []model.PageReport
	var totals model.TierTally

	for len(queue) > 0 && len(visited) < maxPages {
		if err := ctx.Err(); err != nil {
			metrics.IncAudit("failure")
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]
		metrics.SetQueueDepth(len(queue))

		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		resp, err := c.client.Get(ctx, current)
		if err != nil {
			c.logger.Warn("page fetch failed, skipping",
				interfaces.Field{Key: "url", Value: current},
				interfaces.Field{Key: "error", Value: err.Error()})
			metrics.IncPageFetched("failed")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			metrics.IncPageFetched("skipped")
			continue
		}
		metrics.IncPageFetched("ok")

		page, err := c.scanner.TallyPage(ctx, resp.Body, current)
		if err != nil {
			c.logger.Warn("page analysis failed, skipping",
				interfaces.Field{Key: "url", Value: current},
				interfaces.Field{Key: "error", Value: err.Error()})
			continue
		}

		pages = append(pages, *page)
		totals.Merge(page.Tally)
		if c.sink != nil {
			c.sink(current, resp.Body)
		}

		base, err := urlutil.New(current)
		if err != nil {
			continue
		}
		for _, href := range extractLinks(resp.Body) {
			if len(queue) >= queueCap {
				break
			}
			resolved, err := base.Resolve(href)
			if err != nil {
				continue
			}
			link, err := urlutil.New(resolved)
			if err != nil {
				continue
			}
			if link.URL.Scheme != "http" && link.URL.Scheme != "https" {
				continue
			}
			if !root.DomainIsSame(link) {
				continue
			}
			if _, seen := visited[resolved]; !seen {
				queue = append(queue, resolved)
			}
		}
	}
	metrics.SetQueueDepth(0)

	report := &model.SiteReport{
		RootURL:          seedNorm,
		Domain:           domain,
		PagesAnalyzed:    len(pages),
		Tally:            totals,
		ComplianceScore:  round1(totals.ComplianceScore()),
		Gaps:             insights.IdentifyGaps(pages),
		Opportunities:    insights.IdentifyOpportunities(pages, domain),
		Pages:            pages,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		AnalyzedAt:       time.Now().UTC(),
	}

	metrics.IncAudit("success")
	metrics.ObserveAuditDuration(domain, time.Since(start).Seconds())

	c.logger.Info("site crawl complete",
		interfaces.Field{Key: "domain", Value: domain},
		interfaces.Field{Key: "pages", Value: len(pages)},
		interfaces.Field{Key: "score", Value: report.ComplianceScore})

	return report, nil
}

// Compare crawls the caller's site and each competitor sequentially, then
// ranks them. The caller's crawl failing fails the comparison; a competitor
// crawl failing records that competitor with score zero.
func (c *Crawler) Compare(ctx context.Context, yourURL string, competitorURLs []string, maxPagesEach int) (*model.ComparisonResult, error) {
	if maxPagesEach <= 0 {
		maxPagesEach = c.cfg.DefaultComparePages
	}

	your, err := c.AnalyzeSite(ctx, yourURL, maxPagesEach)
	if err != nil {
		return nil, err
	}

	outcomes := make([]insights.CompetitorOutcome, 0, len(competitorURLs))
	for _, compURL := range competitorURLs {
		compURL = strings.TrimSpace(compURL)
		report, err := c.AnalyzeSite(ctx, compURL, maxPagesEach)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("competitor crawl failed",
				interfaces.Field{Key: "url", Value: compURL},
				interfaces.Field{Key: "error", Value: err.Error()})
			outcomes = append(outcomes, insights.CompetitorOutcome{URL: compURL, Err: err})
			continue
		}
		outcomes = append(outcomes, insights.CompetitorOutcome{URL: compURL, Report: report})
	}

	return insights.BuildComparison(your, outcomes), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
