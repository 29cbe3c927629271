package seo

import "strings"

// ProductMeta is the metadata a fallback alt text can be composed from.
type ProductMeta struct {
	Name     string   `json:"product_name,omitempty"`
	Category string   `json:"product_category,omitempty"`
	Brand    string   `json:"brand_name,omitempty"`
	Keywords []string `json:"target_keywords,omitempty"`
}

// ComposeFallback builds alt text from product metadata when no generated
// text is available: "<brand> <name> - <category>", or "Product image" when
// the metadata is empty. The result is truncated to the platform limit.
func ComposeFallback(meta ProductMeta, platform string) string {
	var parts []string
	if meta.Brand != "" {
		parts = append(parts, meta.Brand)
	}
	if meta.Name != "" {
		parts = append(parts, meta.Name)
	}
	if meta.Category != "" {
		parts = append(parts, "- "+meta.Category)
	}

	text := strings.Join(parts, " ")
	if text == "" {
		text = "Product image"
	}
	return Truncate(text, LimitFor(platform))
}

// Truncate caps text at limit characters, cutting at the last word boundary
// and appending an ellipsis. Text within the limit is returned unchanged; a
// non-positive limit means no cap, and a limit too small to fit the ellipsis
// hard-cuts instead.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	if limit <= 3 {
		return text[:limit]
	}
	cut := text[:limit-3]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
