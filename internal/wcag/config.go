package wcag

import "github.com/glowstarlabs/alttext-audit/internal/alttext"

// Config tunes the deep compliance scan.
type Config struct {
	// Level is the WCAG conformance target reported on scans.
	Level string `yaml:"level"`

	// SrcTruncate caps how much of element markup and src URLs land in reports.
	SrcTruncate int `yaml:"src_truncate"`

	// Alt holds the wordlists/thresholds for alt-text checks. The deep scan
	// flags "thumbnail" as generic on top of the crawl assessor's list; the
	// two rule tables are deliberately separate.
	Alt alttext.Config `yaml:"alt"`
}

// DefaultConfig returns the AAA-level scan configuration.
func DefaultConfig() Config {
	altCfg := alttext.DefaultConfig()
	altCfg.GenericWords = append(altCfg.GenericWords, "thumbnail")

	return Config{
		Level:       "AAA",
		SrcTruncate: 200,
		Alt:         altCfg,
	}
}
