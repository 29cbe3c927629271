package model

import "time"

// ImageResult is the per-image outcome of the alt-text assessment.
type ImageResult struct {
	// Src is the image source URL, truncated for report size.
	Src string `json:"src"`

	// Alt is the raw alt attribute. nil means the attribute is absent,
	// which is distinct from an empty string.
	Alt *string `json:"alt"`

	// IsDecorative is derived solely from role/aria-hidden attributes on the
	// element, never inferred from content.
	IsDecorative bool `json:"is_decorative"`

	Tier   QualityTier `json:"quality"`
	Issues []string    `json:"issues"`
}

// PageReport is the per-page aggregate produced during a crawl.
// Invariant: Tally.Total() == len of images found on the page.
type PageReport struct {
	URL        string        `json:"url"`
	Tally      TierTally     `json:"tally"`
	Images     []ImageResult `json:"image_details"`
	PageIssues []Issue       `json:"page_level_issues,omitempty"`
}

// TotalImages returns the number of images found on the page.
func (p *PageReport) TotalImages() int { return p.Tally.Total() }

// Gap is a qualitative weakness derived from site-wide totals by fixed
// threshold rules.
type Gap struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Count       int      `json:"count"`
	Percentage  float64  `json:"percentage,omitempty"`
	Description string   `json:"description"`
	Opportunity string   `json:"your_opportunity"`
	Pages       []string `json:"pages,omitempty"`
}

// Opportunity is a derived suggestion attached to a site report.
type Opportunity struct {
	Type        string `json:"type"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// SiteReport aggregates a bounded crawl of one site.
// Invariant: ComplianceScore == Tally.ComplianceScore(), i.e. the ratio of
// images carrying alt text, vacuously 100 for an image-free site.
type SiteReport struct {
	RootURL          string        `json:"root_url"`
	Domain           string        `json:"domain"`
	PagesAnalyzed    int           `json:"pages_analyzed"`
	Tally            TierTally     `json:"tally"`
	ComplianceScore  float64       `json:"compliance_score"`
	Gaps             []Gap         `json:"gaps"`
	Opportunities    []Opportunity `json:"opportunities"`
	Pages            []PageReport  `json:"page_details"`
	ProcessingTimeMS int64         `json:"processing_time_ms"`
	AnalyzedAt       time.Time     `json:"analyzed_at"`

	// Error marks a crawl that failed outright (seed unreachable). The rest
	// of the report is zero-valued except ComplianceScore, which is 0.
	Error string `json:"error,omitempty"`
}

// TotalImages returns the number of images found across all crawled pages.
func (s *SiteReport) TotalImages() int { return s.Tally.Total() }

// SiteSummary is the condensed view of a SiteReport used in comparisons.
type SiteSummary struct {
	URL             string  `json:"url"`
	Domain          string  `json:"domain,omitempty"`
	ComplianceScore float64 `json:"compliance_score"`
	TotalImages     int     `json:"total_images"`
	ImagesWithAlt   int     `json:"images_with_alt"`
	Error           string  `json:"error,omitempty"`
}

// ComparisonResult ranks one site against a set of competitors.
// YourRank is the 1-based position of the site's score among all scores
// sorted descending; ties keep first-occurrence order.
type ComparisonResult struct {
	YourSite         SiteSummary   `json:"your_site"`
	Competitors      []SiteSummary `json:"competitors"`
	YourRank         int           `json:"your_rank"`
	AdvantageAreas   []string      `json:"advantage_areas"`
	ImprovementAreas []string      `json:"improvement_areas"`
	AnalyzedAt       time.Time     `json:"analyzed_at"`
}
