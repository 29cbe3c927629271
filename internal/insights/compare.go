package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// CompetitorOutcome is one competitor crawl fed into a comparison. Report is
// nil when the crawl failed outright; the site then ranks with score zero.
type CompetitorOutcome struct {
	URL    string
	Report *model.SiteReport
	Err    error
}

// BuildComparison ranks the caller's site against competitor crawls.
// Rank is the 1-based position of the site's score among all scores sorted
// descending; on ties the site takes the first matching position, so it never
// ranks below an equal-scoring competitor.
func BuildComparison(your *model.SiteReport, competitors []CompetitorOutcome) *model.ComparisonResult {
	result := &model.ComparisonResult{
		YourSite: model.SiteSummary{
			URL:             your.RootURL,
			Domain:          your.Domain,
			ComplianceScore: your.ComplianceScore,
			TotalImages:     your.TotalImages(),
			ImagesWithAlt:   your.Tally.WithAlt(),
		},
		AnalyzedAt: time.Now().UTC(),
	}

	scores := []float64{your.ComplianceScore}
	for _, comp := range competitors {
		summary := model.SiteSummary{URL: comp.URL}
		var compScore float64

		if comp.Report != nil {
			summary.Domain = comp.Report.Domain
			summary.ComplianceScore = comp.Report.ComplianceScore
			summary.TotalImages = comp.Report.TotalImages()
			summary.ImagesWithAlt = comp.Report.Tally.WithAlt()
			compScore = comp.Report.ComplianceScore
		} else if comp.Err != nil {
			summary.Error = comp.Err.Error()
		}

		result.Competitors = append(result.Competitors, summary)
		scores = append(scores, compScore)

		name := summary.Domain
		if name == "" {
			name = comp.URL
		}
		switch {
		case your.ComplianceScore > compScore:
			result.AdvantageAreas = append(result.AdvantageAreas,
				fmt.Sprintf("You outperform %s by %.1f points", name, round1(your.ComplianceScore-compScore)))
		case compScore > your.ComplianceScore:
			result.ImprovementAreas = append(result.ImprovementAreas,
				fmt.Sprintf("%s leads by %.1f points - focus on improving alt text quality", name, round1(compScore-your.ComplianceScore)))
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	for i, s := range scores {
		if s == your.ComplianceScore {
			result.YourRank = i + 1
			break
		}
	}

	return result
}
