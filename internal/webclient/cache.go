package webclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

const pageCachePrefix = "page:"

// cachedResponse is the subset of model.Response worth keeping across runs.
type cachedResponse struct {
	Body       []byte      `json:"body"`
	Headers    http.Header `json:"headers"`
	StatusCode int         `json:"status_code"`
}

// CachingClient decorates a WebClient with a Redis page cache so repeated
// audits of the same site within the TTL skip the network. Only successful
// GET responses are cached; cache errors degrade to a plain fetch.
type CachingClient struct {
	inner  interfaces.WebClient
	client *redis.Client
	ttl    time.Duration
	logger interfaces.Logger
}

func NewCachingClient(cfg CacheConfig, inner interfaces.WebClient, logger interfaces.Logger) *CachingClient {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &CachingClient{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With(interfaces.Field{Key: "component", Value: "webclient-cache"}),
	}
}

// cacheKey hashes the URL so arbitrary URLs make safe Redis keys.
func cacheKey(url string) string {
	h := sha256.Sum256([]byte(url))
	return pageCachePrefix + hex.EncodeToString(h[:])
}

func (cc *CachingClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil || !strings.EqualFold(req.Method, http.MethodGet) && req.Method != "" {
		return cc.inner.Do(ctx, req)
	}

	key := cacheKey(req.URL)
	if raw, err := cc.client.Get(ctx, key).Bytes(); err == nil {
		var cached cachedResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			cc.logger.Debug("page cache hit", interfaces.Field{Key: "url", Value: req.URL})
			return &model.Response{
				Request:    req,
				Body:       cached.Body,
				Headers:    cached.Headers,
				StatusCode: cached.StatusCode,
				FetchedAt:  time.Now(),
			}, nil
		}
	} else if err != redis.Nil {
		cc.logger.Warn("page cache read failed",
			interfaces.Field{Key: "url", Value: req.URL},
			interfaces.Field{Key: "error", Value: err.Error()})
	}

	resp, err := cc.inner.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		raw, err := json.Marshal(cachedResponse{
			Body:       resp.Body,
			Headers:    resp.Headers,
			StatusCode: resp.StatusCode,
		})
		if err == nil {
			if err := cc.client.Set(ctx, key, raw, cc.ttl).Err(); err != nil {
				cc.logger.Warn("page cache write failed",
					interfaces.Field{Key: "url", Value: req.URL},
					interfaces.Field{Key: "error", Value: err.Error()})
			}
		}
	}

	return resp, nil
}

// Get is a convenience method for simple GET requests.
func (cc *CachingClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return cc.Do(ctx, &model.Request{Method: http.MethodGet, URL: url})
}

func (cc *CachingClient) Close() error {
	if err := cc.client.Close(); err != nil {
		cc.logger.Warn("closing redis client", interfaces.Field{Key: "error", Value: err.Error()})
	}
	return cc.inner.Close()
}
