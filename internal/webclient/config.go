package webclient

// Backend names a registered WebClient constructor.
type Backend string

const (
	BackendNetHTTP  Backend = "nethttp"
	BackendChromedp Backend = "chromedp"
)

// CacheConfig configures the optional Redis page cache. An empty Addr
// disables caching entirely.
type CacheConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// Config selects and tunes the fetch backend.
type Config struct {
	Backend Backend `yaml:"backend"`

	// TimeoutSeconds bounds every page fetch. Fetches fail fast rather than hang.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// UserAgent identifies the auditor to crawled sites.
	UserAgent string `yaml:"user_agent"`

	// IdleAfterSeconds is how long the chromedp backend waits for the network
	// to go quiet before capturing the rendered DOM.
	IdleAfterSeconds int `yaml:"idle_after_seconds"`

	// Headless controls the chromedp backend's browser window.
	Headless bool `yaml:"headless"`

	Cache CacheConfig `yaml:"cache"`
}

// DefaultConfig returns the nethttp backend with the audit user agent and a
// 30 second fetch timeout.
func DefaultConfig() Config {
	return Config{
		Backend:          BackendNetHTTP,
		TimeoutSeconds:   30,
		UserAgent:        "AltTextAudit/1.0 (accessibility audit)",
		IdleAfterSeconds: 2,
		Headless:         true,
	}
}
