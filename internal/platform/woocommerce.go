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

type wooCommerceIntegration struct {
	storeURL       string
	consumerKey    string
	consumerSecret string
	client         interfaces.WebClient
	logger         interfaces.Logger
}

func newWooCommerce(storeURL, consumerKey, consumerSecret string, client interfaces.WebClient, logger interfaces.Logger) *wooCommerceIntegration {
	return &wooCommerceIntegration{
		storeURL:       strings.TrimRight(storeURL, "/"),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		client:         client,
		logger:         logger.With(interfaces.Field{Key: "component", Value: "woocommerce"}),
	}
}

func (w *wooCommerceIntegration) auth() url.Values {
	q := url.Values{}
	q.Set("consumer_key", w.consumerKey)
	q.Set("consumer_secret", w.consumerSecret)
	return q
}

type wooImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type wooCategory struct {
	Name string `json:"name"`
}

type wooProduct struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Categories []wooCategory `json:"categories"`
	Images     []wooImage    `json:"images"`
}

func (w *wooCommerceIntegration) FetchProducts(ctx context.Context, opts FetchOptions) (*Catalog, error) {
	perPage := opts.Limit
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	q := w.auth()
	q.Set("per_page", fmt.Sprintf("%d", perPage))
	q.Set("page", fmt.Sprintf("%d", page))

	resp, err := w.client.Get(ctx, fmt.Sprintf("%s/wp-json/wc/v3/products?%s", w.storeURL, q.Encode()))
	if err != nil {
		return nil, fmt.Errorf("woocommerce products fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("woocommerce products fetch: status %d", resp.StatusCode)
	}

	var products []wooProduct
	if err := json.Unmarshal(resp.Body, &products); err != nil {
		return nil, fmt.Errorf("decode woocommerce products: %w", err)
	}

	catalog := &Catalog{
		Platform:      WooCommerce,
		Shop:          w.storeURL,
		TotalProducts: len(products),
		Images:        []ProductImage{},
	}
	for _, product := range products {
		names := make([]string, 0, len(product.Categories))
		for _, c := range product.Categories {
			names = append(names, c.Name)
		}
		for _, img := range product.Images {
			catalog.Images = append(catalog.Images, ProductImage{
				ImageURL:        img.Src,
				ImageID:         img.ID,
				ProductID:       product.ID,
				ProductName:     product.Name,
				ProductCategory: strings.Join(names, ", "),
				ExistingAlt:     img.Alt,
			})
		}
	}
	catalog.TotalImages = len(catalog.Images)
	return catalog, nil
}

// pushOne rewrites the product's full images array with the updated alt, as
// the WooCommerce API has no per-image endpoint.
func (w *wooCommerceIntegration) pushOne(ctx context.Context, update AltUpdate) error {
	productURL := fmt.Sprintf("%s/wp-json/wc/v3/products/%d?%s", w.storeURL, update.ProductID, w.auth().Encode())

	resp, err := w.client.Get(ctx, productURL)
	if err != nil {
		return fmt.Errorf("woocommerce product fetch: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("woocommerce product fetch: status %d", resp.StatusCode)
	}

	var product wooProduct
	if err := json.Unmarshal(resp.Body, &product); err != nil {
		return fmt.Errorf("decode woocommerce product: %w", err)
	}

	for i := range product.Images {
		if product.Images[i].ID == update.ImageID {
			product.Images[i].Alt = update.AltText
		}
	}

	body, err := json.Marshal(map[string]any{"images": product.Images})
	if err != nil {
		return fmt.Errorf("encode woocommerce images: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	putResp, err := w.client.Do(ctx, &model.Request{
		Method:  http.MethodPut,
		URL:     productURL,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("woocommerce product update: %w", err)
	}
	if putResp.StatusCode != http.StatusOK {
		return fmt.Errorf("woocommerce product update: status %d", putResp.StatusCode)
	}
	return nil
}

func (w *wooCommerceIntegration) PushAltText(ctx context.Context, updates []AltUpdate) (*PushResult, error) {
	result := &PushResult{ErrorDetails: []UpdateError{}}
	for _, update := range updates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := w.pushOne(ctx, update); err != nil {
			w.logger.Warn("alt text update failed",
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
