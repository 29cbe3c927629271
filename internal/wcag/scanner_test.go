package wcag

import (
	"context"
	"testing"

	"github.com/glowstarlabs/alttext-audit/internal/alttext"
	"github.com/glowstarlabs/alttext-audit/internal/model"
	"github.com/glowstarlabs/alttext-audit/internal/testutil"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	assessor, err := alttext.NewAssessor(alttext.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewAssessor: %v", err)
	}
	s, err := NewScanner(DefaultConfig(), assessor, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	return s
}

const compliantPage = `<!DOCTYPE html>
<html lang="en">
<head><meta name="viewport" content="width=device-width, initial-scale=1"></head>
<body>
  <a href="#main-content" class="skip-link">Skip</a>
  <img src="a.jpg" alt="A red bicycle leaning against a brick wall" width="400" height="300">
  <img src="b.jpg" alt="Close-up of fresh basil leaves on a cutting board" width="400" height="300">
</body>
</html>`

const defectivePage = `<!DOCTYPE html>
<html>
<head><meta name="viewport" content="width=device-width, user-scalable=no"></head>
<body>
  <img src="missing.jpg">
  <img src="empty.jpg" alt="">
  <img src="file.jpg" alt="IMG_0001.jpg">
  <img src="generic.jpg" alt="image">
  <img src="deco.jpg" alt="pretty border" role="presentation">
  <svg viewBox="0 0 10 10"><circle r="4"/></svg>
  <figure><img src="fig.jpg" alt="A lighthouse at dusk on the rocky coast" width="10" height="10"></figure>
  <input type="image" src="go.png">
  <map><area href="/x" shape="rect" coords="0,0,1,1"></map>
  <div style="background-image: url('bg.png')">x</div>
</body>
</html>`

func TestScanCompliantPage(t *testing.T) {
	s := newTestScanner(t)

	report, err := s.Scan(context.Background(), []byte(compliantPage), "https://example.com/")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if report.Status != model.StatusCompliant {
		t.Errorf("status = %q, want %q (issues: %+v)", report.Status, model.StatusCompliant, report.IssuesBySeverity)
	}
	if report.Score != 100.0 {
		t.Errorf("score = %v, want 100.0", report.Score)
	}
	if report.TotalImages != 2 {
		t.Errorf("total images = %d, want 2", report.TotalImages)
	}
	if report.TotalIssues != 0 {
		t.Errorf("total issues = %d, want 0", report.TotalIssues)
	}
	// Severity buckets are always present, even when empty.
	for _, sev := range []string{"critical", "major", "minor"} {
		if _, ok := report.IssuesBySeverity[sev]; !ok {
			t.Errorf("missing severity bucket %q", sev)
		}
	}
}

func TestScanDefectivePage(t *testing.T) {
	s := newTestScanner(t)

	report, err := s.Scan(context.Background(), []byte(defectivePage), "https://example.com/bad")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if report.Status == model.StatusCompliant {
		t.Fatalf("defective page scored compliant: %+v", report)
	}
	if report.TotalImages != 6 {
		t.Errorf("total images = %d, want 6", report.TotalImages)
	}
	if report.TotalSVGs != 1 {
		t.Errorf("total svgs = %d, want 1", report.TotalSVGs)
	}
	if report.TotalFigures != 1 {
		t.Errorf("total figures = %d, want 1", report.TotalFigures)
	}
	if report.TotalBackground != 1 {
		t.Errorf("total background images = %d, want 1", report.TotalBackground)
	}

	// Missing alt, input image, and area are all Level A critical failures.
	if report.CriticalIssues < 3 {
		t.Errorf("critical issues = %d, want >= 3", report.CriticalIssues)
	}
	// Decorative image with non-empty alt and missing lang are major.
	if report.MajorIssues < 2 {
		t.Errorf("major issues = %d, want >= 2", report.MajorIssues)
	}

	if len(report.IssuesByCriterion["1.1.1"]) == 0 {
		t.Error("expected 1.1.1 issues for alt text failures")
	}
	if len(report.IssuesByCriterion["3.1.1"]) != 1 {
		t.Errorf("expected one 3.1.1 issue for missing lang, got %d", len(report.IssuesByCriterion["3.1.1"]))
	}
	if len(report.IssuesByCriterion["1.4.4"]) != 1 {
		t.Errorf("expected one 1.4.4 issue for scaling restriction, got %d", len(report.IssuesByCriterion["1.4.4"]))
	}
	if len(report.IssuesByCriterion["2.4.1"]) != 1 {
		t.Errorf("expected one 2.4.1 issue for missing skip link, got %d", len(report.IssuesByCriterion["2.4.1"]))
	}

	if len(report.Recommendations) == 0 {
		t.Error("expected recommendations for a defective page")
	}
}

func TestScanDeepChecksAccumulate(t *testing.T) {
	s := newTestScanner(t)

	// A filename alt is also shorter than ideal and lacks width/height; the
	// deep scan reports every applicable issue for the element.
	page := `<html lang="en"><body><a class="skip">s</a><img src="x.jpg" alt="IMG_1.jpg"></body></html>`
	report, err := s.Scan(context.Background(), []byte(page), "u")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(report.ElementResults) != 1 {
		t.Fatalf("element results = %d, want 1", len(report.ElementResults))
	}
	el := report.ElementResults[0]
	if el.Compliant {
		t.Error("filename alt should not be compliant")
	}
	// Filename (critical) plus missing width/height (minor).
	if len(el.Issues) < 2 {
		t.Errorf("issues = %+v, want at least filename and dimension issues", el.Issues)
	}
}

func TestScanEmptyPage(t *testing.T) {
	s := newTestScanner(t)

	report, err := s.Scan(context.Background(), []byte(`<html lang="en"><body><a class="skip-nav">s</a></body></html>`), "u")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if report.Score != 100.0 {
		t.Errorf("score = %v, want 100.0 for a page with no applicable checks", report.Score)
	}
	if report.Status != model.StatusCompliant {
		t.Errorf("status = %q, want compliant", report.Status)
	}
}

func TestScanSVGHiddenSkipsChecks(t *testing.T) {
	s := newTestScanner(t)

	page := `<html lang="en"><body><a class="skip">s</a><svg aria-hidden="true"><circle r="1"/></svg></body></html>`
	report, err := s.Scan(context.Background(), []byte(page), "u")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if report.TotalIssues != 0 {
		t.Errorf("hidden SVG should produce no issues, got %+v", report.IssuesBySeverity)
	}
}

func TestTallyPage(t *testing.T) {
	s := newTestScanner(t)

	page := `<html lang="en"><body>
	  <img src="a.jpg" alt="A tabby cat sleeping on a sunny windowsill">
	  <img src="b.jpg" alt="image">
	  <img src="c.jpg" alt="" role="presentation">
	  <img src="d.jpg" alt="">
	  <img src="e.jpg">
	</body></html>`

	report, err := s.TallyPage(context.Background(), []byte(page), "https://example.com/")
	if err != nil {
		t.Fatalf("TallyPage: %v", err)
	}

	if got := report.Tally.Total(); got != 5 {
		t.Errorf("total = %d, want 5", got)
	}
	if report.Tally.Good != 1 {
		t.Errorf("good = %d, want 1", report.Tally.Good)
	}
	if report.Tally.Poor != 1 {
		t.Errorf("poor = %d, want 1", report.Tally.Poor)
	}
	if report.Tally.DecorativeCorrect != 1 {
		t.Errorf("decorative = %d, want 1", report.Tally.DecorativeCorrect)
	}
	if report.Tally.Empty != 1 {
		t.Errorf("empty = %d, want 1", report.Tally.Empty)
	}
	if report.Tally.Missing != 1 {
		t.Errorf("missing = %d, want 1", report.Tally.Missing)
	}
	if len(report.Images) != 5 {
		t.Errorf("image results = %d, want 5", len(report.Images))
	}

	// Page-level issues ride along with the tally (no skip link here).
	if len(report.PageIssues) == 0 {
		t.Error("expected page-level issues")
	}
}

func TestNewScannerNilAssessor(t *testing.T) {
	if _, err := NewScanner(DefaultConfig(), nil, &testutil.DummyLogger{}); err == nil {
		t.Fatal("expected error for nil assessor")
	}
}
