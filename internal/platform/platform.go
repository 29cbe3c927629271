// Package platform connects to e-commerce store APIs to pull product images
// and push optimized alt text back.
package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
)

type Platform string

const (
	Shopify     Platform = "shopify"
	WooCommerce Platform = "woocommerce"
	Amazon      Platform = "amazon"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrPushUnsupported marks platforms whose API exposes no alt text
	// write path (Amazon).
	ErrPushUnsupported = errors.New("platform does not support alt text updates")
)

// ConfigurationError reports a missing or empty credential at construction
// time, before any API call is made.
type ConfigurationError struct {
	Platform Platform
	Field    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: missing credential %q", e.Platform, e.Field)
}

// ProductImage is one product image pulled from a store.
type ProductImage struct {
	ImageURL        string `json:"image_url"`
	ImageID         int64  `json:"image_id,omitempty"`
	ProductID       int64  `json:"product_id,omitempty"`
	ASIN            string `json:"asin,omitempty"`
	ProductName     string `json:"product_name"`
	ProductCategory string `json:"product_category,omitempty"`
	ExistingAlt     string `json:"existing_alt"`
	Position        int    `json:"position,omitempty"`
	Variant         string `json:"variant,omitempty"`
}

// Catalog is the image inventory fetched from one store.
type Catalog struct {
	Platform      Platform       `json:"platform"`
	Shop          string         `json:"shop,omitempty"`
	TotalProducts int            `json:"total_products"`
	TotalImages   int            `json:"total_images"`
	Images        []ProductImage `json:"images"`
}

// FetchOptions bounds a catalog pull. ASINs applies to Amazon only.
type FetchOptions struct {
	Limit int      `json:"limit,omitempty"`
	Page  int      `json:"page,omitempty"`
	ASINs []string `json:"asins,omitempty"`
}

// AltUpdate is one alt text write targeting a specific product image.
type AltUpdate struct {
	ProductID int64  `json:"product_id"`
	ImageID   int64  `json:"image_id"`
	AltText   string `json:"alt_text"`
}

// UpdateError records one failed update within a bulk push.
type UpdateError struct {
	ProductID int64  `json:"product_id"`
	ImageID   int64  `json:"image_id"`
	Error     string `json:"error"`
}

// PushResult summarizes a bulk push. Per-item failures are collected here
// rather than aborting the batch.
type PushResult struct {
	Updated      int           `json:"updated"`
	Errors       int           `json:"errors"`
	ErrorDetails []UpdateError `json:"error_details"`
}

// Integration is the per-platform capability surface.
type Integration interface {
	FetchProducts(ctx context.Context, opts FetchOptions) (*Catalog, error)
	PushAltText(ctx context.Context, updates []AltUpdate) (*PushResult, error)
}

// New builds the integration for a platform name. Credentials are preflighted
// so misconfiguration surfaces as a ConfigurationError here, not as an
// authentication failure mid-sync.
func New(platform Platform, credentials map[string]string, client interfaces.WebClient, logger interfaces.Logger) (Integration, error) {
	require := func(field string) (string, error) {
		if v := credentials[field]; v != "" {
			return v, nil
		}
		return "", &ConfigurationError{Platform: platform, Field: field}
	}

	switch platform {
	case Shopify:
		domain, err := require("shop_domain")
		if err != nil {
			return nil, err
		}
		token, err := require("access_token")
		if err != nil {
			return nil, err
		}
		return newShopify(domain, token, client, logger), nil

	case WooCommerce:
		storeURL, err := require("store_url")
		if err != nil {
			return nil, err
		}
		key, err := require("consumer_key")
		if err != nil {
			return nil, err
		}
		secret, err := require("consumer_secret")
		if err != nil {
			return nil, err
		}
		return newWooCommerce(storeURL, key, secret, client, logger), nil

	case Amazon:
		refreshToken, err := require("refresh_token")
		if err != nil {
			return nil, err
		}
		clientID, err := require("client_id")
		if err != nil {
			return nil, err
		}
		clientSecret, err := require("client_secret")
		if err != nil {
			return nil, err
		}
		marketplace := credentials["marketplace_id"]
		if marketplace == "" {
			marketplace = defaultMarketplaceID
		}
		return newAmazon(refreshToken, clientID, clientSecret, marketplace, client, logger), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
}
