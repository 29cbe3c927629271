package alttext

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// Assessor classifies a single alt-text string into a quality tier.
// It is pure: no I/O, no network, fully deterministic for a given Config.
type Assessor struct {
	cfg        Config
	generic    map[string]struct{}
	filenameRe *regexp.Regexp
	logger     interfaces.Logger
}

// NewAssessor compiles the config's rule tables. The logger may be nil for
// test harnesses that call Assess directly.
func NewAssessor(cfg Config, logger interfaces.Logger) (*Assessor, error) {
	re, err := regexp.Compile(`(?i)` + cfg.FilenamePattern)
	if err != nil {
		return nil, fmt.Errorf("compile filename pattern: %w", err)
	}

	generic := make(map[string]struct{}, len(cfg.GenericWords))
	for _, w := range cfg.GenericWords {
		generic[strings.ToLower(w)] = struct{}{}
	}

	if logger != nil {
		logger = logger.With(interfaces.Field{Key: "component", Value: "alttext-assessor"})
	}

	return &Assessor{
		cfg:        cfg,
		generic:    generic,
		filenameRe: re,
		logger:     logger,
	}, nil
}

// Assess evaluates one alt attribute. alt is nil when the attribute is absent
// entirely, which is distinct from an empty string. decorative must be derived
// by the caller from role/aria-hidden; an empty alt without a role is not
// treated as decorative intent here.
//
// Rule precedence: missing, empty, filename, generic word (the last two
// short-circuit as "poor"), then the accumulating checks (redundant prefix,
// length bounds, all caps) which only downgrade "good" to "acceptable".
func (a *Assessor) Assess(alt *string, decorative bool, src string) (model.QualityTier, []string) {
	if alt == nil {
		if decorative {
			// Marked decorative via role/aria-hidden: the absent attribute is
			// tallied but not flagged as an element-level failure.
			return model.TierMissing, nil
		}
		return model.TierMissing, []string{"No alt attribute"}
	}

	text := *alt
	if text == "" {
		if decorative {
			return model.TierDecorativeCorrect, nil
		}
		return model.TierEmpty, []string{"Empty alt on non-decorative image"}
	}

	if a.filenameRe.MatchString(text) {
		return model.TierPoor, []string{"Alt text is a filename"}
	}

	if _, ok := a.generic[strings.ToLower(strings.TrimSpace(text))]; ok {
		return model.TierPoor, []string{"Generic/non-descriptive alt text"}
	}

	var issues []string

	lower := strings.ToLower(text)
	for _, prefix := range a.cfg.RedundantPrefixes {
		if strings.HasPrefix(lower, prefix) {
			issues = append(issues, fmt.Sprintf("Redundant prefix '%s'", prefix))
			break
		}
	}

	length := utf8.RuneCountInString(text)
	if length < a.cfg.MinLength {
		issues = append(issues, "Too short - may not be descriptive enough")
	}
	if length > a.cfg.MaxLength {
		issues = append(issues, "Very long - consider using longdesc")
	}

	if length > a.cfg.UppercaseMin && text == strings.ToUpper(text) {
		issues = append(issues, "All uppercase")
	}

	if len(issues) == 0 {
		return model.TierGood, nil
	}
	return model.TierAcceptable, issues
}
