package interfaces

import (
	"context"

	"github.com/glowstarlabs/alttext-audit/internal/model"
)

// WebClient abstracts page fetching so scanners and crawlers never talk to
// net/http (or a headless browser) directly.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	// Get is a convenience method for simple GET requests.
	Get(ctx context.Context, url string) (*model.Response, error)

	Close() error
}
