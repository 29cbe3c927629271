package model

import "time"

// Compliance status thresholds: >=95 compliant, >=70 partial, else non-compliant.
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusPartial      ComplianceStatus = "partial"
	StatusNonCompliant ComplianceStatus = "non_compliant"
	StatusError        ComplianceStatus = "error"
)

// ElementCheck is the per-element outcome of a deep compliance scan.
type ElementCheck struct {
	Type         string  `json:"type"`
	Src          string  `json:"src,omitempty"`
	Alt          *string `json:"alt,omitempty"`
	IsDecorative bool    `json:"is_decorative,omitempty"`
	Issues       []Issue `json:"issues"`
	Passes       []Pass  `json:"passes"`
	Compliant    bool    `json:"compliant"`
}

// ComplianceReport is the deep per-page WCAG report.
// Score == passes/(passes+issues)*100, or 100.0 when no checks applied.
type ComplianceReport struct {
	URL              string             `json:"url"`
	WCAGLevel        string             `json:"wcag_level"`
	Score            float64            `json:"compliance_score"`
	Status           ComplianceStatus   `json:"status"`
	TotalImages      int                `json:"total_images"`
	TotalSVGs        int                `json:"total_svgs"`
	TotalBackground  int                `json:"total_background_images"`
	TotalFigures     int                `json:"total_figures"`
	ChecksPerformed  int                `json:"total_checks_performed"`
	TotalPasses      int                `json:"total_passes"`
	TotalIssues      int                `json:"total_issues"`
	CriticalIssues   int                `json:"critical_issues"`
	MajorIssues      int                `json:"major_issues"`
	MinorIssues      int                `json:"minor_issues"`
	IssuesBySeverity map[string][]Issue `json:"issues_by_severity"`
	IssuesByCriterion map[string][]Issue `json:"issues_by_criterion"`
	ElementResults   []ElementCheck     `json:"image_results"`
	PageIssues       []Issue            `json:"page_level_issues"`
	Recommendations  []string           `json:"recommendations"`
	ProcessingTimeMS int64              `json:"processing_time_ms"`
	CheckedAt        time.Time          `json:"checked_at"`
	Error            string             `json:"error,omitempty"`
}

// BatchComplianceReport aggregates deep scans over several URLs.
type BatchComplianceReport struct {
	TotalURLs    int                 `json:"total_urls"`
	AverageScore float64             `json:"average_compliance_score"`
	Results      []*ComplianceReport `json:"results"`
	CheckedAt    time.Time           `json:"checked_at"`
}
