package product

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/DanielChillemi/pourcast/internal/cache"
	"github.com/DanielChillemi/pourcast/internal/common"
	"github.com/DanielChillemi/pourcast/internal/upstream"
)

type barcodeLookupPayload struct {
	Products []struct {
		Title       string   `json:"title"`
		ProductName string   `json:"product_name"`
		Brand       string   `json:"brand"`
		Category    string   `json:"category"`
		Images      []string `json:"images"`
	} `json:"products"`
}

// BarcodeLookupTier queries the paid Barcode Lookup API, the third tier.
// Without an API key the tier stays in the chain but never matches.
type BarcodeLookupTier struct {
	apiKey  string
	baseURL string
	client  *upstream.Client
	store   *cache.Store
	limits  cache.Limits
}

func NewBarcodeLookupTier(store *cache.Store, httpc *http.Client, apiKey string, ttl time.Duration) *BarcodeLookupTier {
	return &BarcodeLookupTier{
		apiKey:  apiKey,
		baseURL: "https://api.barcodelookup.com",
		client:  upstream.NewClient("barcodelookup", httpc),
		store:   store,
		limits:  cache.Limits{TTL: ttl, MaxCalls: 50, Window: 24 * time.Hour},
	}
}

func (t *BarcodeLookupTier) Name() string { return "barcodelookup" }

func (t *BarcodeLookupTier) Lookup(ctx context.Context, barcode string) (Info, error) {
	if t.apiKey == "" {
		return Info{}, ErrNoMatch
	}

	payload, err := cache.GetOrFetch(ctx, t.store, t.Name(), barcode, t.limits, func(ctx context.Context) (barcodeLookupPayload, error) {
		u := fmt.Sprintf("%s/v3/products?barcode=%s&key=%s", t.baseURL, barcode, url.QueryEscape(t.apiKey))
		return upstream.GetJSON[barcodeLookupPayload](ctx, t.client, u)
	})
	if err != nil {
		return Info{}, err
	}

	if len(payload.Products) == 0 {
		return Info{}, ErrNoMatch
	}

	p := payload.Products[0]
	name := common.FirstNonEmpty(p.Title, p.ProductName)
	if name == "" {
		return Info{}, ErrNoMatch
	}

	info := Info{
		Name:     name,
		Brand:    p.Brand,
		Category: p.Category,
		Source:   SourceBarcodeLookup,
	}
	if len(p.Images) > 0 {
		info.Image = p.Images[0]
	}
	return info, nil
}
