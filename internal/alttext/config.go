package alttext

// Config holds the wordlists and thresholds the assessor evaluates against.
// They are plain data so tests can substitute variant lists; DefaultConfig
// matches the published audit behavior.
type Config struct {
	// GenericWords are whole-string matches (lower-cased, trimmed) that make
	// alt text non-descriptive.
	GenericWords []string `yaml:"generic_words"`

	// RedundantPrefixes are openings screen readers already announce.
	RedundantPrefixes []string `yaml:"redundant_prefixes"`

	// FilenamePattern matches alt text that is just an image filename.
	FilenamePattern string `yaml:"filename_pattern"`

	// MinLength / MaxLength bound descriptive alt text, in runes.
	MinLength int `yaml:"min_length"`
	MaxLength int `yaml:"max_length"`

	// UppercaseMin is the minimum length before all-caps alt text is flagged.
	UppercaseMin int `yaml:"uppercase_min"`
}

// DefaultConfig returns the standard rule tables.
func DefaultConfig() Config {
	return Config{
		GenericWords: []string{
			"image", "photo", "picture", "icon", "logo", "graphic", "banner",
			"placeholder", "untitled", "img", "pic",
		},
		RedundantPrefixes: []string{
			"image of", "picture of", "photo of", "graphic of", "icon of",
		},
		FilenamePattern: `^[\w-]+\.(jpg|jpeg|png|gif|svg|webp|bmp|tiff)$`,
		MinLength:       10,
		MaxLength:       250,
		UppercaseMin:    5,
	}
}
