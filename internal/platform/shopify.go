package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

const shopifyAPIVersion = "2024-01"

type shopifyIntegration struct {
	shopDomain  string
	accessToken string
	client      interfaces.WebClient
	logger      interfaces.Logger
}

func newShopify(shopDomain, accessToken string, client interfaces.WebClient, logger interfaces.Logger) *shopifyIntegration {
	shopDomain = strings.TrimRight(shopDomain, "/")
	if !strings.HasPrefix(shopDomain, "https://") {
		shopDomain = "https://" + shopDomain
	}
	return &shopifyIntegration{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		client:      client,
		logger:      logger.With(interfaces.Field{Key: "component", Value: "shopify"}),
	}
}

func (s *shopifyIntegration) headers() http.Header {
	h := http.Header{}
	h.Set("X-Shopify-Access-Token", s.accessToken)
	h.Set("Content-Type", "application/json")
	return h
}

type shopifyImage struct {
	ID       int64   `json:"id"`
	Src      string  `json:"src"`
	Alt      *string `json:"alt"`
	Position int     `json:"position"`
}

type shopifyProduct struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	ProductType string         `json:"product_type"`
	Images      []shopifyImage `json:"images"`
}

func (s *shopifyIntegration) FetchProducts(ctx context.Context, opts FetchOptions) (*Catalog, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 250 {
		limit = 250
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))

	resp, err := s.client.Do(ctx, &model.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/admin/api/%s/products.json?%s", s.shopDomain, shopifyAPIVersion, q.Encode()),
		Headers: s.headers(),
	})
	if err != nil {
		return nil, fmt.Errorf("shopify products fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify products fetch: status %d", resp.StatusCode)
	}

	var payload struct {
		Products []shopifyProduct `json:"products"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("decode shopify products: %w", err)
	}

	catalog := &Catalog{
		Platform:      Shopify,
		Shop:          s.shopDomain,
		TotalProducts: len(payload.Products),
		Images:        []ProductImage{},
	}
	for _, product := range payload.Products {
		for _, img := range product.Images {
			alt := ""
			if img.Alt != nil {
				alt = *img.Alt
			}
			position := img.Position
			if position == 0 {
				position = 1
			}
			catalog.Images = append(catalog.Images, ProductImage{
				ImageURL:        img.Src,
				ImageID:         img.ID,
				ProductID:       product.ID,
				ProductName:     product.Title,
				ProductCategory: product.ProductType,
				ExistingAlt:     alt,
				Position:        position,
			})
		}
	}
	catalog.TotalImages = len(catalog.Images)
	return catalog, nil
}

func (s *shopifyIntegration) pushOne(ctx context.Context, update AltUpdate) error {
	body, err := json.Marshal(map[string]any{
		"image": map[string]any{"id": update.ImageID, "alt": update.AltText},
	})
	if err != nil {
		return fmt.Errorf("encode image update: %w", err)
	}

	resp, err := s.client.Do(ctx, &model.Request{
		Method:  http.MethodPut,
		URL:     fmt.Sprintf("%s/admin/api/%s/products/%d/images/%d.json", s.shopDomain, shopifyAPIVersion, update.ProductID, update.ImageID),
		Headers: s.headers(),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("shopify image update: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("shopify image update: status %d", resp.StatusCode)
	}
	return nil
}

// PushAltText applies updates one by one; a failed item is recorded and the
// rest of the batch proceeds.
func (s *shopifyIntegration) PushAltText(ctx context.Context, updates []AltUpdate) (*PushResult, error) {
	result := &PushResult{ErrorDetails: []UpdateError{}}
	for _, update := range updates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.pushOne(ctx, update); err != nil {
			s.logger.Warn("alt text update failed",
				interfaces.Field{Key: "product_id", Value: update.ProductID},
				interfaces.Field{Key: "image_id", Value: update.ImageID},
				interfaces.Field{Key: "error", Value: err.Error()})
			result.ErrorDetails = append(result.ErrorDetails, UpdateError{
				ProductID: update.ProductID,
				ImageID:   update.ImageID,
				Error:     err.Error(),
			})
			continue
		}
		result.Updated++
	}
	result.Errors = len(result.ErrorDetails)
	return result, nil
}
