package insights

import (
	"fmt"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// Good-ratio thresholds for the opportunity rules. Strict comparisons: a
// ratio of exactly 50 or 80 does not trigger the rule below it.
const (
	goodRatioHighImpact   = 50.0
	goodRatioMediumImpact = 80.0
)

// IdentifyOpportunities derives SEO opportunity entries from the good-tier
// ratio across a crawl. The image_search_ranking entry is unconditional.
func IdentifyOpportunities(pages []model.PageReport, domain string) []model.Opportunity {
	var opportunities []model.Opportunity

	var totals model.TierTally
	for _, p := range pages {
		totals.Merge(p.Tally)
	}

	denom := totals.Total()
	if denom < 1 {
		denom = 1
	}
	goodRatio := float64(totals.GoodOrDecorative()) / float64(denom) * 100

	if goodRatio < goodRatioHighImpact {
		opportunities = append(opportunities, model.Opportunity{
			Type:        "seo_advantage",
			Impact:      "high",
			Description: fmt.Sprintf("Competitor %s has only %.1f%% good alt text - massive SEO opportunity", domain, round1(goodRatio)),
			Action:      "Ensure all your product images have keyword-rich, descriptive alt text",
		})
	}

	if goodRatio < goodRatioMediumImpact {
		opportunities = append(opportunities, model.Opportunity{
			Type:        "accessibility_leadership",
			Impact:      "medium",
			Description: "Competitor lacks WCAG compliance - position yourself as the accessible choice",
			Action:      "Achieve WCAG AAA compliance and promote it in marketing",
		})
	}

	opportunities = append(opportunities, model.Opportunity{
		Type:        "image_search_ranking",
		Impact:      "high",
		Description: "Well-optimized alt text directly improves Google Image Search rankings",
		Action:      "Generate SEO-optimized alt text for all product images",
	})

	return opportunities
}
