package seo

import (
	"strings"
	"testing"
)

func TestAnalyzeQualityStrongAltText(t *testing.T) {
	alt := "Organic cotton crew neck t-shirt in navy blue, relaxed fit"
	analysis := AnalyzeQuality(alt, []string{"organic", "cotton", "t-shirt"}, "shopify")

	if analysis.Score < 85 {
		t.Errorf("score = %v, want >= 85 (issues: %v)", analysis.Score, analysis.Issues)
	}
	if analysis.Recommendation != "Excellent SEO optimization" {
		t.Errorf("recommendation = %q", analysis.Recommendation)
	}
	if len(analysis.KeywordsFound) != 3 {
		t.Errorf("keywords found = %v, want all 3", analysis.KeywordsFound)
	}
	if !analysis.PlatformOptimized {
		t.Error("alt within the shopify limit should be platform optimized")
	}
	if analysis.KeywordDensity != 100.0 {
		t.Errorf("density = %v, want 100.0", analysis.KeywordDensity)
	}
}

func TestAnalyzeQualityDeductions(t *testing.T) {
	tests := []struct {
		name      string
		alt       string
		keywords  []string
		platform  string
		wantIssue string
	}{
		{
			name:      "too short",
			alt:       "Navy shirt",
			keywords:  nil,
			platform:  "generic",
			wantIssue: "Alt text too short for SEO impact - aim for 50-150 characters",
		},
		{
			name:      "low keyword coverage",
			alt:       "A plain description without any of the target terms included here",
			keywords:  []string{"widget", "gadget", "doohickey"},
			platform:  "generic",
			wantIssue: "Low keyword coverage: only 0/3 keywords found",
		},
		{
			name:      "redundant prefix",
			alt:       "image of a navy blue organic cotton t-shirt in a relaxed fit",
			keywords:  nil,
			platform:  "generic",
			wantIssue: "Starts with redundant prefix 'image of' - bad for SEO",
		},
		{
			name:      "keyword stuffing",
			alt:       "shirt shirt shirt shirt navy blue cotton everyday comfortable",
			keywords:  nil,
			platform:  "generic",
			wantIssue: "Potential keyword stuffing detected",
		},
		{
			name:      "over platform limit",
			alt:       "Handcrafted sterling silver pendant " + strings.Repeat("with intricate filigree detail ", 10),
			keywords:  nil,
			platform:  "etsy",
			wantIssue: "Exceeds etsy character limit (346/250)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := AnalyzeQuality(tt.alt, tt.keywords, tt.platform)
			found := false
			for _, iss := range analysis.Issues {
				if iss == tt.wantIssue {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("issues = %v, want %q", analysis.Issues, tt.wantIssue)
			}
			if analysis.Score >= 100 {
				t.Errorf("score = %v, expected a deduction", analysis.Score)
			}
		})
	}
}

func TestAnalyzeQualityFrontLoading(t *testing.T) {
	// Keyword present but past the first 50 characters.
	alt := "A wonderfully soft and breathable garment made from organic cotton fabric"
	analysis := AnalyzeQuality(alt, []string{"cotton"}, "generic")

	found := false
	for _, iss := range analysis.Issues {
		if iss == "Consider front-loading primary keyword in first 50 characters" {
			found = true
		}
	}
	if !found {
		t.Errorf("issues = %v, want front-loading issue", analysis.Issues)
	}

	// Same keyword up front gets the strength instead.
	analysis = AnalyzeQuality("Cotton crew neck t-shirt in navy, breathable weave", []string{"cotton"}, "generic")
	found = false
	for _, s := range analysis.Strengths {
		if s == "Primary keyword front-loaded in first 50 characters" {
			found = true
		}
	}
	if !found {
		t.Errorf("strengths = %v, want front-loading strength", analysis.Strengths)
	}
}

func TestAnalyzeQualityScoreClamped(t *testing.T) {
	// Stack every deduction; the score must not go negative.
	alt := "img of pic pic pic pic"
	analysis := AnalyzeQuality(alt, []string{"widget", "gadget", "gizmo"}, "generic")
	if analysis.Score < 0 {
		t.Errorf("score = %v, want clamped at 0", analysis.Score)
	}
	if analysis.Recommendation != "Needs significant SEO improvement" {
		t.Errorf("recommendation = %q", analysis.Recommendation)
	}
}

func TestLimitFor(t *testing.T) {
	tests := []struct {
		platform string
		want     int
	}{
		{"shopify", 512},
		{"amazon", 1000},
		{"woocommerce", 420},
		{"etsy", 250},
		{"ebay", 300},
		{"generic", 300},
		{"unknown-storefront", 300},
	}
	for _, tt := range tests {
		if got := LimitFor(tt.platform); got != tt.want {
			t.Errorf("LimitFor(%q) = %d, want %d", tt.platform, got, tt.want)
		}
	}
}

func TestComposeFallback(t *testing.T) {
	tests := []struct {
		name string
		meta ProductMeta
		want string
	}{
		{
			name: "full metadata",
			meta: ProductMeta{Brand: "Acme", Name: "Trail Pack 40L", Category: "Backpacks"},
			want: "Acme Trail Pack 40L - Backpacks",
		},
		{
			name: "name only",
			meta: ProductMeta{Name: "Trail Pack 40L"},
			want: "Trail Pack 40L",
		},
		{
			name: "empty metadata",
			meta: ProductMeta{},
			want: "Product image",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeFallback(tt.meta, "generic"); got != tt.want {
				t.Errorf("ComposeFallback = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short text", 300); got != "short text" {
		t.Errorf("within limit: got %q", got)
	}

	long := strings.Repeat("word ", 100)
	got := Truncate(long, 50)
	if len(got) > 50 {
		t.Errorf("len = %d, want <= 50", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text should end with ellipsis: %q", got)
	}
	if strings.Contains(strings.TrimSuffix(got, "..."), "  ") {
		t.Errorf("unexpected double space in %q", got)
	}
}

func TestTruncateTinyLimits(t *testing.T) {
	// Limits too small for the ellipsis must hard-cut, not panic.
	if got := Truncate("hello world", 2); got != "he" {
		t.Errorf("limit 2: got %q, want %q", got, "he")
	}
	if got := Truncate("hello world", 3); got != "hel" {
		t.Errorf("limit 3: got %q, want %q", got, "hel")
	}
	// Non-positive limits leave the text alone.
	if got := Truncate("hello world", 0); got != "hello world" {
		t.Errorf("limit 0: got %q", got)
	}
	if got := Truncate("hello world", -1); got != "hello world" {
		t.Errorf("negative limit: got %q", got)
	}
}
