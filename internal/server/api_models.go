package server

import (
	"github.com/glowstarlabs/alttext-audit/internal/platform"
	"github.com/glowstarlabs/alttext-audit/internal/seo"
)

// ScanRequest triggers a synchronous single-page compliance scan. Provide
// either a URL to fetch or inline HTML (with an optional URL label).
type ScanRequest struct {
	URL  string `json:"url" example:"https://example.com"`
	HTML string `json:"html,omitempty"`
}

// BatchScanRequest starts an async compliance scan over several URLs.
type BatchScanRequest struct {
	URLs []string `json:"urls" example:"[\"https://example.com\"]"`
}

// StartAuditRequest starts an async site crawl from the given URL.
type StartAuditRequest struct {
	URL      string `json:"url" example:"https://example.com"`
	MaxPages int    `json:"max_pages" example:"10"`
}

// CompareRequest starts an async comparison of your site against competitors.
type CompareRequest struct {
	YourURL        string   `json:"your_url" example:"https://yourshop.com"`
	CompetitorURLs []string `json:"competitor_urls" example:"[\"https://rival.com\"]"`
	MaxPagesEach   int      `json:"max_pages_each" example:"5"`
}

// SEOAnalyzeRequest scores alt text for SEO quality. An empty alt_text is
// composed from the product metadata first.
type SEOAnalyzeRequest struct {
	AltText        string          `json:"alt_text"`
	TargetKeywords []string        `json:"target_keywords"`
	Platform       string          `json:"platform" example:"shopify"`
	Product        seo.ProductMeta `json:"product"`
}

// SEOAnalyzeResponse carries the analyzed alt text and its SEO breakdown.
type SEOAnalyzeResponse struct {
	AltText        string       `json:"alt_text"`
	Platform       string       `json:"platform"`
	CharacterCount int          `json:"character_count"`
	MaxAllowed     int          `json:"max_allowed"`
	Analysis       seo.Analysis `json:"seo_analysis"`
}

// PlatformSyncRequest pulls the product image catalog from a store.
type PlatformSyncRequest struct {
	Platform    string                `json:"platform" example:"shopify"`
	Credentials map[string]string     `json:"credentials"`
	Options     platform.FetchOptions `json:"options"`
}

// PlatformPushRequest pushes alt text updates back to a store.
type PlatformPushRequest struct {
	Platform    string               `json:"platform" example:"shopify"`
	Credentials map[string]string    `json:"credentials"`
	Updates     []platform.AltUpdate `json:"updates"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
