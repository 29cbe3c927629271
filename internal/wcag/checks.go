package wcag

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// checkImg evaluates one <img> element. Checks accumulate: a filename alt
// still gets the generic/prefix/length checks, unlike the crawl tally path
// which stops at the first failed tier.
func (s *Scanner) checkImg(sel *goquery.Selection) model.ElementCheck {
	src, _ := sel.Attr("src")
	altVal, altExists := sel.Attr("alt")
	role, _ := sel.Attr("role")
	ariaHidden, _ := sel.Attr("aria-hidden")
	longdesc, _ := sel.Attr("longdesc")
	width, _ := sel.Attr("width")
	height, _ := sel.Attr("height")

	var issues []model.Issue
	var passes []model.Pass

	isDecorative := role == "presentation" || role == "none" || ariaHidden == "true"

	markup := s.truncate(outerHTML(sel))
	srcShort := s.truncate(src)

	if !altExists && !isDecorative {
		issues = append(issues, model.Issue{
			Criterion: "1.1.1",
			Severity:  model.SeverityCritical,
			Message:   "Image missing alt attribute entirely",
			Element:   markup,
			Src:       srcShort,
			Fix:       `Add alt="" for decorative images or descriptive alt text for informative images`,
		})
	} else if altExists {
		passes = append(passes, model.Pass{Criterion: "1.1.1", Check: "has_alt"})

		if altVal == "" && !isDecorative {
			issues = append(issues, model.Issue{
				Criterion: "1.1.1",
				Severity:  model.SeverityMajor,
				Message:   "Empty alt text on non-decorative image",
				Element:   markup,
				Src:       srcShort,
				Fix:       "Add descriptive alt text or mark as decorative with role='presentation'",
			})
		} else if altVal != "" {
			passes = append(passes, model.Pass{Criterion: "1.1.1", Check: "alt_not_empty"})

			if s.filenameRe.MatchString(altVal) {
				issues = append(issues, model.Issue{
					Criterion: "1.1.1",
					Severity:  model.SeverityCritical,
					Message:   fmt.Sprintf("Alt text appears to be a filename: '%s'", altVal),
					Src:       srcShort,
					Fix:       "Replace filename with descriptive text about the image content",
				})
			} else {
				passes = append(passes, model.Pass{Criterion: "1.1.1", Check: "alt_not_filename"})
			}

			if _, generic := s.generic[strings.ToLower(strings.TrimSpace(altVal))]; generic {
				issues = append(issues, model.Issue{
					Criterion: "1.1.1",
					Severity:  model.SeverityMajor,
					Message:   fmt.Sprintf("Generic/non-descriptive alt text: '%s'", altVal),
					Src:       srcShort,
					Fix:       "Replace with specific description of the image content and purpose",
				})
			} else {
				passes = append(passes, model.Pass{Criterion: "1.1.1", Check: "alt_not_generic"})
			}

			lower := strings.ToLower(altVal)
			for _, prefix := range s.cfg.Alt.RedundantPrefixes {
				if strings.HasPrefix(lower, prefix) {
					issues = append(issues, model.Issue{
						Criterion: "1.1.1",
						Severity:  model.SeverityMinor,
						Message:   fmt.Sprintf("Alt text starts with redundant prefix: '%s'", prefix),
						Src:       srcShort,
						Fix:       fmt.Sprintf("Remove '%s' - screen readers already announce it as an image", prefix),
					})
					break
				}
			}

			if len(altVal) > s.cfg.Alt.MaxLength && longdesc == "" {
				issues = append(issues, model.Issue{
					Criterion: "1.1.1",
					Severity:  model.SeverityMinor,
					Message:   fmt.Sprintf("Alt text is very long (%d chars) - consider using longdesc", len(altVal)),
					Src:       srcShort,
					Fix:       "For complex images, use a shorter alt and provide longdesc or aria-describedby",
				})
			}

			if altVal == strings.ToUpper(altVal) && len(altVal) > s.cfg.Alt.UppercaseMin {
				issues = append(issues, model.Issue{
					Criterion: "1.1.1",
					Severity:  model.SeverityMinor,
					Message:   "Alt text is all uppercase - poor screen reader experience",
					Src:       srcShort,
					Fix:       "Use sentence case for better screen reader pronunciation",
				})
			}
		}
	}

	if isDecorative && altExists && altVal != "" {
		issues = append(issues, model.Issue{
			Criterion: "1.1.1",
			Severity:  model.SeverityMajor,
			Message:   "Decorative image (role=presentation) has non-empty alt text",
			Src:       srcShort,
			Fix:       `Set alt="" for decorative images`,
		})
	}

	if width == "" || height == "" {
		issues = append(issues, model.Issue{
			Criterion: "1.3.1",
			Severity:  model.SeverityMinor,
			Message:   "Image missing width/height attributes - may cause layout shift",
			Src:       srcShort,
			Fix:       "Add explicit width and height attributes to prevent CLS",
		})
	}

	var altPtr *string
	if altExists {
		altPtr = &altVal
	}

	return model.ElementCheck{
		Type:         "img",
		Src:          srcShort,
		Alt:          altPtr,
		IsDecorative: isDecorative,
		Issues:       issues,
		Passes:       passes,
		Compliant:    len(issues) == 0,
	}
}

// checkSVG evaluates inline <svg> elements for an accessible name and role.
func (s *Scanner) checkSVG(sel *goquery.Selection) model.ElementCheck {
	var issues []model.Issue
	var passes []model.Pass

	role, _ := sel.Attr("role")
	ariaLabel, _ := sel.Attr("aria-label")
	ariaHidden, _ := sel.Attr("aria-hidden")
	hasTitle := sel.Find("title").Length() > 0

	if ariaHidden != "true" && role != "presentation" {
		if ariaLabel == "" && !hasTitle {
			issues = append(issues, model.Issue{
				Criterion: "1.1.1",
				Severity:  model.SeverityMajor,
				Message:   "SVG missing accessible name (no aria-label or <title>)",
				Fix:       "Add aria-label or a <title> element inside the SVG",
			})
		} else {
			passes = append(passes, model.Pass{Criterion: "1.1.1", Check: "svg_has_name"})
		}

		if role != "img" {
			issues = append(issues, model.Issue{
				Criterion: "4.1.2",
				Severity:  model.SeverityMinor,
				Message:   "SVG missing role='img' for proper screen reader announcement",
				Fix:       "Add role='img' to the SVG element",
			})
		}
	}

	var altPtr *string
	if ariaLabel != "" {
		altPtr = &ariaLabel
	}

	return model.ElementCheck{
		Type:      "svg",
		Alt:       altPtr,
		Issues:    issues,
		Passes:    passes,
		Compliant: len(issues) == 0,
	}
}

// checkFigure flags figures that wrap an image without a figcaption.
func (s *Scanner) checkFigure(sel *goquery.Selection) ([]model.Issue, []model.Pass) {
	hasCaption := sel.Find("figcaption").Length() > 0
	hasImg := sel.Find("img").Length() > 0

	if hasImg && !hasCaption {
		return []model.Issue{{
			Criterion: "1.1.1",
			Severity:  model.SeverityMinor,
			Message:   "Figure with image missing <figcaption>",
			Fix:       "Add a <figcaption> to provide context for the figure",
		}}, nil
	}
	if hasCaption {
		return nil, []model.Pass{{Criterion: "1.1.1", Check: "figure_has_caption"}}
	}
	return nil, nil
}

// checkInputImage requires alt on image-type form inputs.
func (s *Scanner) checkInputImage(sel *goquery.Selection) ([]model.Issue, []model.Pass) {
	if alt, _ := sel.Attr("alt"); alt == "" {
		return []model.Issue{{
			Criterion: "1.1.1",
			Severity:  model.SeverityCritical,
			Message:   "Image input missing alt text",
			Fix:       "Add alt attribute describing the button action",
		}}, nil
	}
	return nil, []model.Pass{{Criterion: "1.1.1", Check: "input_image_has_alt"}}
}

// checkArea requires alt on image map areas.
func (s *Scanner) checkArea(sel *goquery.Selection) ([]model.Issue, []model.Pass) {
	if alt, _ := sel.Attr("alt"); alt == "" {
		return []model.Issue{{
			Criterion: "1.1.1",
			Severity:  model.SeverityCritical,
			Message:   "Image map area missing alt text",
			Fix:       "Add alt attribute describing the linked area",
		}}, nil
	}
	return nil, []model.Pass{{Criterion: "1.1.1", Check: "area_has_alt"}}
}

// findBackgroundImages collects url() references from inline styles. These
// are surfaced as counts only; CSS backgrounds carry no alt mechanism.
func (s *Scanner) findBackgroundImages(doc *goquery.Document) []string {
	var urls []string
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if !strings.Contains(style, "background-image") && !strings.Contains(style, "background:") {
			return
		}
		for _, m := range s.bgURLRe.FindAllStringSubmatch(style, -1) {
			urls = append(urls, m[1])
		}
	})
	return urls
}

// checkPageLevel runs the whole-page checks: skip link, lang attribute, and
// viewport scaling restrictions.
func (s *Scanner) checkPageLevel(doc *goquery.Document) []model.Issue {
	var issues []model.Issue

	hasSkipLink := doc.Find(`a[href="#main-content"]`).Length() > 0
	if !hasSkipLink {
		doc.Find("a[class]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			class, _ := sel.Attr("class")
			if strings.Contains(strings.ToLower(class), "skip") {
				hasSkipLink = true
				return false
			}
			return true
		})
	}
	if !hasSkipLink {
		issues = append(issues, model.Issue{
			Criterion: criterionSkipLink,
			Severity:  model.SeverityMinor,
			Message:   "No skip navigation link found",
			Fix:       "Add a skip-to-content link at the top of the page",
		})
	}

	if lang, _ := doc.Find("html").Attr("lang"); lang == "" {
		issues = append(issues, model.Issue{
			Criterion: criterionPageLang,
			Severity:  model.SeverityMajor,
			Message:   "HTML element missing lang attribute",
			Fix:       `Add lang attribute to <html> element (e.g., lang="en")`,
		})
	}

	if viewport := doc.Find(`meta[name="viewport"]`).First(); viewport.Length() > 0 {
		content, _ := viewport.Attr("content")
		if strings.Contains(content, "maximum-scale=1") || strings.Contains(content, "user-scalable=no") {
			issues = append(issues, model.Issue{
				Criterion: criterionViewport,
				Severity:  model.SeverityMajor,
				Message:   "Viewport meta prevents user scaling",
				Fix:       "Remove maximum-scale=1 and user-scalable=no from viewport meta",
			})
		}
	}

	return issues
}

// truncate caps report strings at the configured length.
func (s *Scanner) truncate(v string) string {
	if s.cfg.SrcTruncate > 0 && len(v) > s.cfg.SrcTruncate {
		return v[:s.cfg.SrcTruncate]
	}
	return v
}

func outerHTML(sel *goquery.Selection) string {
	h, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return h
}
