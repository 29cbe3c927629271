package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
	"github.com/glowstarlabs/alttext-audit/internal/model"
)

const (
	defaultMarketplaceID = "ATVPDKIKX0DER" // amazon.com
	amazonTokenURL       = "https://api.amazon.com/auth/o2/token"
	amazonCatalogURL     = "https://sellingpartnerapi-na.amazon.com/catalog/2022-04-01/items"
)

type amazonIntegration struct {
	refreshToken  string
	clientID      string
	clientSecret  string
	marketplaceID string
	accessToken   string
	client        interfaces.WebClient
	logger        interfaces.Logger
}

func newAmazon(refreshToken, clientID, clientSecret, marketplaceID string, client interfaces.WebClient, logger interfaces.Logger) *amazonIntegration {
	return &amazonIntegration{
		refreshToken:  refreshToken,
		clientID:      clientID,
		clientSecret:  clientSecret,
		marketplaceID: marketplaceID,
		client:        client,
		logger:        logger.With(interfaces.Field{Key: "component", Value: "amazon"}),
	}
}

// authenticate exchanges the refresh token for an SP-API access token.
func (a *amazonIntegration) authenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", a.refreshToken)
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)

	headers := http.Header{}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(ctx, &model.Request{
		Method:  http.MethodPost,
		URL:     amazonTokenURL,
		Headers: headers,
		Body:    []byte(form.Encode()),
	})
	if err != nil {
		return fmt.Errorf("amazon token exchange: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("amazon token exchange: status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return fmt.Errorf("decode amazon token: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("amazon token exchange: empty access token")
	}
	a.accessToken = payload.AccessToken
	return nil
}

type amazonItem struct {
	Images []struct {
		Images []struct {
			Link    string `json:"link"`
			Variant string `json:"variant"`
		} `json:"images"`
	} `json:"images"`
	Summaries []struct {
		ItemName string `json:"itemName"`
	} `json:"summaries"`
}

// FetchProducts pulls catalog items for opts.ASINs. Individual ASIN failures
// are logged and skipped.
func (a *amazonIntegration) FetchProducts(ctx context.Context, opts FetchOptions) (*Catalog, error) {
	if a.accessToken == "" {
		if err := a.authenticate(ctx); err != nil {
			return nil, err
		}
	}

	catalog := &Catalog{Platform: Amazon, Images: []ProductImage{}}
	for _, asin := range opts.ASINs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		headers := http.Header{}
		headers.Set("x-amz-access-token", a.accessToken)
		headers.Set("Content-Type", "application/json")

		q := url.Values{}
		q.Set("marketplaceIds", a.marketplaceID)
		q.Set("includedData", "images,summaries")

		resp, err := a.client.Do(ctx, &model.Request{
			Method:  http.MethodGet,
			URL:     fmt.Sprintf("%s/%s?%s", amazonCatalogURL, asin, q.Encode()),
			Headers: headers,
		})
		if err != nil || resp.StatusCode != http.StatusOK {
			a.logger.Warn("asin fetch failed, skipping",
				interfaces.Field{Key: "asin", Value: asin})
			continue
		}

		var item amazonItem
		if err := json.Unmarshal(resp.Body, &item); err != nil {
			a.logger.Warn("asin decode failed, skipping",
				interfaces.Field{Key: "asin", Value: asin},
				interfaces.Field{Key: "error", Value: err.Error()})
			continue
		}

		title := ""
		if len(item.Summaries) > 0 {
			title = item.Summaries[0].ItemName
		}
		for _, set := range item.Images {
			for _, img := range set.Images {
				variant := img.Variant
				if variant == "" {
					variant = "MAIN"
				}
				catalog.Images = append(catalog.Images, ProductImage{
					ImageURL:    img.Link,
					ASIN:        asin,
					ProductName: title,
					Variant:     variant,
					// The SP-API exposes no alt text on catalog images.
					ExistingAlt: "",
				})
			}
		}
	}

	catalog.TotalProducts = len(opts.ASINs)
	catalog.TotalImages = len(catalog.Images)
	return catalog, nil
}

// PushAltText is unsupported: the SP-API has no alt text write path.
func (a *amazonIntegration) PushAltText(ctx context.Context, updates []AltUpdate) (*PushResult, error) {
	return nil, ErrPushUnsupported
}
