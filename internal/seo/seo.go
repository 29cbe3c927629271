// Package seo scores alt text for search ranking quality and composes
// fallback alt text from product metadata. All heuristics are deterministic;
// there is no generation model behind this package.
package seo

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// PlatformLimits maps e-commerce platforms to their alt text length caps.
const genericLimit = 300

var PlatformLimits = map[string]int{
	"shopify":     512,
	"amazon":      1000,
	"woocommerce": 420,
	"etsy":        250,
	"ebay":        300,
	"generic":     genericLimit,
}

// CategoryKeywords lists SEO keyword vocabularies for common e-commerce
// categories, usable as target keywords when a caller supplies none.
var CategoryKeywords = map[string][]string{
	"fashion":     {"style", "outfit", "wear", "clothing", "dress", "shirt", "pants", "shoes"},
	"electronics": {"device", "gadget", "tech", "smart", "wireless", "digital", "portable"},
	"home":        {"decor", "furniture", "kitchen", "bedroom", "living room", "modern", "rustic"},
	"beauty":      {"skincare", "makeup", "cosmetic", "organic", "natural", "anti-aging"},
	"food":        {"organic", "fresh", "gourmet", "artisan", "handmade", "natural"},
	"jewelry":     {"gold", "silver", "diamond", "handcrafted", "luxury", "sterling"},
	"sports":      {"fitness", "workout", "athletic", "performance", "outdoor", "training"},
}

// LimitFor returns the alt text cap for a platform, falling back to the
// generic limit for unknown names.
func LimitFor(platform string) int {
	if limit, ok := PlatformLimits[platform]; ok {
		return limit
	}
	return genericLimit
}

// Analysis is the outcome of scoring one alt text string.
type Analysis struct {
	Score             float64  `json:"seo_score"`
	KeywordsFound     []string `json:"keywords_found"`
	KeywordsMissing   []string `json:"keywords_missing"`
	KeywordDensity    float64  `json:"keyword_density"`
	Issues            []string `json:"issues"`
	Strengths         []string `json:"strengths"`
	PlatformOptimized bool     `json:"platform_optimized"`
	Recommendation    string   `json:"recommendation"`
}

// AnalyzeQuality scores alt text against target keywords and a platform's
// length constraints. Starts at 100 and deducts per failed heuristic; the
// result is clamped to [0, 100].
func AnalyzeQuality(altText string, targetKeywords []string, platform string) Analysis {
	score := 100.0
	var issues, strengths []string

	textLower := strings.ToLower(altText)

	keywordsFound := []string{}
	keywordsMissing := []string{}
	for _, kw := range targetKeywords {
		if strings.Contains(textLower, strings.ToLower(kw)) {
			keywordsFound = append(keywordsFound, kw)
		} else {
			keywordsMissing = append(keywordsMissing, kw)
		}
	}

	if len(targetKeywords) > 0 {
		ratio := float64(len(keywordsFound)) / float64(len(targetKeywords))
		switch {
		case ratio >= 0.7:
			strengths = append(strengths, fmt.Sprintf("Good keyword coverage: %d/%d keywords included", len(keywordsFound), len(targetKeywords)))
		case ratio >= 0.4:
			score -= 15
			issues = append(issues, fmt.Sprintf("Moderate keyword coverage: %d/%d keywords", len(keywordsFound), len(targetKeywords)))
		default:
			score -= 30
			issues = append(issues, fmt.Sprintf("Low keyword coverage: only %d/%d keywords found", len(keywordsFound), len(targetKeywords)))
		}
	}

	maxLength := LimitFor(platform)
	switch {
	case len(altText) < 30:
		score -= 20
		issues = append(issues, "Alt text too short for SEO impact - aim for 50-150 characters")
	case len(altText) > maxLength:
		score -= 15
		issues = append(issues, fmt.Sprintf("Exceeds %s character limit (%d/%d)", platform, len(altText), maxLength))
	case len(altText) >= 50 && len(altText) <= 150:
		strengths = append(strengths, "Optimal length for SEO (50-150 characters)")
	}

	words := strings.Fields(textLower)
	if len(words) > 0 {
		freq := make(map[string]int, len(words))
		maxFreq := 0
		for _, w := range words {
			freq[w]++
			if freq[w] > maxFreq {
				maxFreq = freq[w]
			}
		}
		if maxFreq > 3 && len(words) < 20 {
			score -= 20
			issues = append(issues, "Potential keyword stuffing detected")
		}
	}

	for _, prefix := range []string{"image of", "picture of", "photo of", "img of"} {
		if strings.HasPrefix(textLower, prefix) {
			score -= 10
			issues = append(issues, fmt.Sprintf("Starts with redundant prefix '%s' - bad for SEO", prefix))
		}
	}

	if len(words) >= 5 {
		strengths = append(strengths, "Descriptive and detailed")
	}
	if firstWordCapitalized(altText) && altText != strings.ToUpper(altText) {
		strengths = append(strengths, "Proper capitalization")
	}

	if len(targetKeywords) > 0 {
		first50 := textLower
		if len(first50) > 50 {
			first50 = first50[:50]
		}
		frontLoaded := false
		for _, kw := range targetKeywords {
			if strings.Contains(first50, strings.ToLower(kw)) {
				frontLoaded = true
				break
			}
		}
		if frontLoaded {
			strengths = append(strengths, "Primary keyword front-loaded in first 50 characters")
		} else {
			score -= 10
			issues = append(issues, "Consider front-loading primary keyword in first 50 characters")
		}
	}

	score = math.Max(0, math.Min(100, score))

	density := 0.0
	if len(targetKeywords) > 0 {
		density = round1(float64(len(keywordsFound)) / float64(len(targetKeywords)) * 100)
	}

	var recommendation string
	switch {
	case score >= 85:
		recommendation = "Excellent SEO optimization"
	case score >= 65:
		recommendation = "Good but could be improved"
	default:
		recommendation = "Needs significant SEO improvement"
	}

	return Analysis{
		Score:             round1(score),
		KeywordsFound:     keywordsFound,
		KeywordsMissing:   keywordsMissing,
		KeywordDensity:    density,
		Issues:            issues,
		Strengths:         strengths,
		PlatformOptimized: len(altText) <= maxLength,
		Recommendation:    recommendation,
	}
}

// firstWordCapitalized reports whether the first word carries any uppercase
// character.
func firstWordCapitalized(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	for _, r := range words[0] {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
