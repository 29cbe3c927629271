// Package insights derives gaps, opportunities and comparative rankings from
// crawl results. Everything here is pure: fixed threshold rules over tallies,
// no I/O.
package insights

import (
	"fmt"
	"math"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// maxExamplePages caps how many zero-coverage page URLs a gap carries.
const maxExamplePages = 5

// IdentifyGaps applies the fixed gap rules to per-page crawl results.
func IdentifyGaps(pages []model.PageReport) []model.Gap {
	var gaps []model.Gap

	var totals model.TierTally
	for _, p := range pages {
		totals.Merge(p.Tally)
	}

	totalImages := totals.Total()
	denom := totalImages
	if denom < 1 {
		denom = 1
	}

	if totals.Missing > 0 {
		gaps = append(gaps, model.Gap{
			Type:        "missing_alt",
			Severity:    model.SeverityCritical,
			Count:       totals.Missing,
			Percentage:  round1(float64(totals.Missing) / float64(denom) * 100),
			Description: fmt.Sprintf("%d images have no alt text at all", totals.Missing),
			Opportunity: "You can outrank them by having 100% alt text coverage",
		})
	}

	if poor := totals.PoorQuality(); poor > 0 {
		gaps = append(gaps, model.Gap{
			Type:        "poor_quality",
			Severity:    model.SeverityMajor,
			Count:       poor,
			Percentage:  round1(float64(poor) / float64(denom) * 100),
			Description: fmt.Sprintf("%d images have poor/generic alt text", poor),
			Opportunity: "Use descriptive, keyword-rich alt text to gain SEO advantage",
		})
	}

	var zeroPages []string
	for _, p := range pages {
		if p.Tally.WithAlt() == 0 && p.Tally.Total() > 0 {
			zeroPages = append(zeroPages, p.URL)
		}
	}
	if len(zeroPages) > 0 {
		examples := zeroPages
		if len(examples) > maxExamplePages {
			examples = examples[:maxExamplePages]
		}
		gaps = append(gaps, model.Gap{
			Type:        "zero_coverage_pages",
			Severity:    model.SeverityCritical,
			Count:       len(zeroPages),
			Description: fmt.Sprintf("%d pages have zero alt text on any image", len(zeroPages)),
			Pages:       examples,
			Opportunity: "These pages are completely invisible to image search - easy to outrank",
		})
	}

	return gaps
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
