package model

// Severity buckets for compliance issues. Fixed per check, not configurable.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Issue is one failed accessibility check, attributed to a WCAG criterion.
type Issue struct {
	Criterion string   `json:"wcag_criterion"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Element   string   `json:"element,omitempty"`
	Src       string   `json:"src,omitempty"`
	Fix       string   `json:"fix,omitempty"`
}

// Pass is one accessibility check that succeeded.
type Pass struct {
	Criterion string `json:"wcag_criterion"`
	Check     string `json:"check"`
}
