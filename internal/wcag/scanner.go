package wcag

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/glowstarlabs/alttext-audit/internal/alttext"
	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// Scanner runs accessibility checks over parsed page markup. It performs no
// network I/O; callers hand it raw HTML bytes.
type Scanner struct {
	cfg        Config
	assessor   *alttext.Assessor
	generic    map[string]struct{}
	filenameRe *regexp.Regexp
	bgURLRe    *regexp.Regexp
	logger     interfaces.Logger
}

// NewScanner builds a Scanner. assessor drives the lighter TallyPage path
// used by the crawler; the deep Scan path evaluates its own rule tables from
// cfg.Alt.
func NewScanner(cfg Config, assessor *alttext.Assessor, logger interfaces.Logger) (*Scanner, error) {
	if assessor == nil {
		return nil, fmt.Errorf("wcag: nil assessor")
	}

	re, err := regexp.Compile(`(?i)` + cfg.Alt.FilenamePattern)
	if err != nil {
		return nil, fmt.Errorf("compile filename pattern: %w", err)
	}

	generic := make(map[string]struct{}, len(cfg.Alt.GenericWords))
	for _, w := range cfg.Alt.GenericWords {
		generic[strings.ToLower(w)] = struct{}{}
	}

	return &Scanner{
		cfg:        cfg,
		assessor:   assessor,
		generic:    generic,
		filenameRe: re,
		bgURLRe:    regexp.MustCompile(`url\(["']?([^"')\s]+)["']?\)`),
		logger:     logger.With(interfaces.Field{Key: "component", Value: "wcag-scanner"}),
	}, nil
}

// Scan runs the deep WCAG compliance checks on one page and aggregates the
// report. Malformed markup is treated as a page with zero images rather than
// an error.
func (s *Scanner) Scan(ctx context.Context, html []byte, url string) (*model.ComplianceReport, error) {
	start := time.Now()

	report := &model.ComplianceReport{
		URL:       url,
		WCAGLevel: s.cfg.Level,
		CheckedAt: time.Now().UTC(),
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		s.logger.Warn("unparseable markup, scoring page as image-free",
			interfaces.Field{Key: "url", Value: url},
			interfaces.Field{Key: "error", Value: err.Error()})
		s.finalize(report, nil, nil, nil, start)
		return report, nil
	}

	var issues []model.Issue
	var passes []model.Pass

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		result := s.checkImg(sel)
		report.ElementResults = append(report.ElementResults, result)
		issues = append(issues, result.Issues...)
		passes = append(passes, result.Passes...)
		report.TotalImages++
	})

	doc.Find("svg").Each(func(_ int, sel *goquery.Selection) {
		result := s.checkSVG(sel)
		report.ElementResults = append(report.ElementResults, result)
		issues = append(issues, result.Issues...)
		passes = append(passes, result.Passes...)
		report.TotalSVGs++
	})

	doc.Find("figure").Each(func(_ int, sel *goquery.Selection) {
		fi, fp := s.checkFigure(sel)
		issues = append(issues, fi...)
		passes = append(passes, fp...)
		report.TotalFigures++
	})

	doc.Find(`input[type="image"]`).Each(func(_ int, sel *goquery.Selection) {
		fi, fp := s.checkInputImage(sel)
		issues = append(issues, fi...)
		passes = append(passes, fp...)
	})

	doc.Find("area").Each(func(_ int, sel *goquery.Selection) {
		fi, fp := s.checkArea(sel)
		issues = append(issues, fi...)
		passes = append(passes, fp...)
	})

	report.TotalBackground = len(s.findBackgroundImages(doc))

	pageIssues := s.checkPageLevel(doc)

	s.finalize(report, issues, passes, pageIssues, start)
	return report, nil
}

// finalize computes score, status, severity and criterion buckets.
func (s *Scanner) finalize(report *model.ComplianceReport, issues []model.Issue, passes []model.Pass, pageIssues []model.Issue, start time.Time) {
	issues = append(issues, pageIssues...)

	report.PageIssues = pageIssues
	report.TotalPasses = len(passes)
	report.TotalIssues = len(issues)
	report.ChecksPerformed = len(passes) + len(issues)

	if report.ChecksPerformed > 0 {
		report.Score = round1(float64(len(passes)) / float64(report.ChecksPerformed) * 100)
	} else {
		report.Score = 100.0
	}

	switch {
	case report.Score >= 95:
		report.Status = model.StatusCompliant
	case report.Score >= 70:
		report.Status = model.StatusPartial
	default:
		report.Status = model.StatusNonCompliant
	}

	report.IssuesBySeverity = map[string][]model.Issue{
		string(model.SeverityCritical): {},
		string(model.SeverityMajor):    {},
		string(model.SeverityMinor):    {},
	}
	report.IssuesByCriterion = map[string][]model.Issue{}
	for _, issue := range issues {
		report.IssuesBySeverity[string(issue.Severity)] = append(report.IssuesBySeverity[string(issue.Severity)], issue)
		report.IssuesByCriterion[issue.Criterion] = append(report.IssuesByCriterion[issue.Criterion], issue)
	}
	report.CriticalIssues = len(report.IssuesBySeverity[string(model.SeverityCritical)])
	report.MajorIssues = len(report.IssuesBySeverity[string(model.SeverityMajor)])
	report.MinorIssues = len(report.IssuesBySeverity[string(model.SeverityMinor)])

	report.Recommendations = s.recommendations(issues, report.Score)
	report.ProcessingTimeMS = time.Since(start).Milliseconds()
}

// recommendations derives the prioritized action list from the issue set.
func (s *Scanner) recommendations(issues []model.Issue, score float64) []string {
	var recs []string

	var critical, major int
	criteriaSeen := map[string]bool{}
	for _, i := range issues {
		switch i.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityMajor:
			major++
		}
		criteriaSeen[i.Criterion] = true
	}

	if critical > 0 {
		recs = append(recs, fmt.Sprintf("URGENT: Fix %d critical issues first - these are WCAG Level A failures", critical))
	}
	if major > 0 {
		recs = append(recs, fmt.Sprintf("HIGH PRIORITY: Address %d major issues for WCAG AA compliance", major))
	}
	if score < 50 {
		recs = append(recs, "Consider a full accessibility audit - significant compliance gaps detected")
	}
	if score >= 90 {
		recs = append(recs, "Strong accessibility foundation - focus on minor refinements for AAA compliance")
	}

	if criteriaSeen["1.1.1"] {
		recs = append(recs, "Review all images for meaningful alt text - this is the most common accessibility failure")
	}
	if criteriaSeen["4.1.2"] {
		recs = append(recs, "Ensure all interactive elements have proper ARIA labels and roles")
	}

	return recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
