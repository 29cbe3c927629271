package crawler

// Config bounds the site crawl.
type Config struct {
	// DefaultMaxPages applies when a caller passes maxPages <= 0.
	DefaultMaxPages int `yaml:"default_max_pages"`

	// DefaultComparePages applies per site during comparisons.
	DefaultComparePages int `yaml:"default_compare_pages"`

	// QueueFactor caps the pending queue at maxPages * QueueFactor so one
	// link-heavy page cannot balloon memory.
	QueueFactor int `yaml:"queue_factor"`
}

func DefaultConfig() Config {
	return Config{
		DefaultMaxPages:     10,
		DefaultComparePages: 5,
		QueueFactor:         2,
	}
}
