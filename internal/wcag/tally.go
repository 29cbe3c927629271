package wcag

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// TallyPage runs the lightweight per-image assessment used during crawls.
// Unlike Scan it classifies each img into exactly one quality tier and skips
// the pass/fail bookkeeping; malformed markup yields an image-free report.
func (s *Scanner) TallyPage(ctx context.Context, html []byte, url string) (*model.PageReport, error) {
	report := &model.PageReport{URL: url}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		s.logger.Warn("unparseable markup, tallying page as image-free",
			interfaces.Field{Key: "url", Value: url},
			interfaces.Field{Key: "error", Value: err.Error()})
		return report, nil
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		altVal, altExists := sel.Attr("alt")
		role, _ := sel.Attr("role")
		ariaHidden, _ := sel.Attr("aria-hidden")

		var altPtr *string
		if altExists {
			altPtr = &altVal
		}
		decorative := role == "presentation" || role == "none" || ariaHidden == "true"

		tier, issues := s.assessor.Assess(altPtr, decorative, src)
		report.Tally.Add(tier)
		report.Images = append(report.Images, model.ImageResult{
			Src:          s.truncate(src),
			Alt:          altPtr,
			IsDecorative: decorative,
			Tier:         tier,
			Issues:       issues,
		})
	})

	report.PageIssues = s.checkPageLevel(doc)
	return report, nil
}
