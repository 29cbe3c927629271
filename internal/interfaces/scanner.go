package interfaces

import (
	"context"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// Scanner is the cross-package contract for evaluating page markup.
// Implementations receive raw HTML bytes and perform no network I/O, so test
// harnesses can feed literal markup directly.
type Scanner interface {
	// Scan runs the deep WCAG compliance checks on one page.
	Scan(ctx context.Context, html []byte, url string) (*model.ComplianceReport, error)

	// TallyPage runs the lighter per-image alt-text tally used during crawls.
	TallyPage(ctx context.Context, html []byte, url string) (*model.PageReport, error)
}

// Analyzer runs bounded site crawls and cross-site comparisons.
type Analyzer interface {
	// AnalyzeSite crawls from seed up to maxPages same-domain pages and
	// aggregates a site-wide report.
	AnalyzeSite(ctx context.Context, seed string, maxPages int) (*model.SiteReport, error)

	// Compare crawls the caller's site and each competitor, then ranks them.
	Compare(ctx context.Context, yourURL string, competitorURLs []string, maxPagesEach int) (*model.ComparisonResult, error)
}
