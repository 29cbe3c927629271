package model

// QualityTier is the closed set of alt-text quality classifications.
// Every image on a scanned page lands in exactly one tier.
type QualityTier string

const (
	TierMissing           QualityTier = "missing"
	TierEmpty             QualityTier = "empty"
	TierDecorativeCorrect QualityTier = "decorative_correct"
	TierPoor              QualityTier = "poor"
	TierAcceptable        QualityTier = "acceptable"
	TierGood              QualityTier = "good"
)

// TierTally counts images per quality tier. The per-tier fields partition the
// images on a page: Total() always equals the number of images tallied.
type TierTally struct {
	Missing           int `json:"missing"`
	Empty             int `json:"empty"`
	DecorativeCorrect int `json:"decorative_correct"`
	Poor              int `json:"poor"`
	Acceptable        int `json:"acceptable"`
	Good              int `json:"good"`
}

// Add records one image in the given tier.
func (t *TierTally) Add(tier QualityTier) {
	switch tier {
	case TierMissing:
		t.Missing++
	case TierEmpty:
		t.Empty++
	case TierDecorativeCorrect:
		t.DecorativeCorrect++
	case TierPoor:
		t.Poor++
	case TierAcceptable:
		t.Acceptable++
	case TierGood:
		t.Good++
	}
}

// Merge accumulates another tally into this one.
func (t *TierTally) Merge(other TierTally) {
	t.Missing += other.Missing
	t.Empty += other.Empty
	t.DecorativeCorrect += other.DecorativeCorrect
	t.Poor += other.Poor
	t.Acceptable += other.Acceptable
	t.Good += other.Good
}

// Total returns the number of images tallied.
func (t TierTally) Total() int {
	return t.Missing + t.Empty + t.DecorativeCorrect + t.Poor + t.Acceptable + t.Good
}

// WithAlt counts images carrying a non-empty alt attribute. Decorative images
// with a correct empty alt are intentionally excluded: the compliance score
// numerator follows the alt-coverage definition, not the pass/fail one.
func (t TierTally) WithAlt() int {
	return t.Poor + t.Acceptable + t.Good
}

// PoorQuality counts images whose alt handling falls short without being
// absent: empty on a non-decorative image, or present but weak.
func (t TierTally) PoorQuality() int {
	return t.Empty + t.Poor + t.Acceptable
}

// GoodOrDecorative counts images whose alt handling is fully correct.
func (t TierTally) GoodOrDecorative() int {
	return t.Good + t.DecorativeCorrect
}

// ComplianceScore derives the 0-100 alt coverage score for this tally.
// A tally with no images is vacuously compliant.
func (t TierTally) ComplianceScore() float64 {
	total := t.Total()
	if total == 0 {
		return 100.0
	}
	return float64(t.WithAlt()) / float64(total) * 100
}
