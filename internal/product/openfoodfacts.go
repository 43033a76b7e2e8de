package product

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/DanielChillemi/pourcast/internal/cache"
	"github.com/DanielChillemi/pourcast/internal/common"
	"github.com/DanielChillemi/pourcast/internal/upstream"
)

type openFoodFactsPayload struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		GenericName string `json:"generic_name"`
		Brands      string `json:"brands"`
		Categories  string `json:"categories"`
		ImageURL    string `json:"image_url"`
	} `json:"product"`
}

// OpenFoodFactsTier queries the Open Food Facts public database, the
// first tier in the chain. No credential required.
type OpenFoodFactsTier struct {
	baseURL string
	client  *upstream.Client
	store   *cache.Store
	limits  cache.Limits
}

func NewOpenFoodFactsTier(store *cache.Store, httpc *http.Client, ttl time.Duration) *OpenFoodFactsTier {
	return &OpenFoodFactsTier{
		baseURL: "https://world.openfoodfacts.org",
		client:  upstream.NewClient("openfoodfacts", httpc),
		store:   store,
		limits:  cache.Limits{TTL: ttl, MaxCalls: 100, Window: time.Minute},
	}
}

func (t *OpenFoodFactsTier) Name() string { return "openfoodfacts" }

func (t *OpenFoodFactsTier) Lookup(ctx context.Context, barcode string) (Info, error) {
	payload, err := cache.GetOrFetch(ctx, t.store, t.Name(), barcode, t.limits, func(ctx context.Context) (openFoodFactsPayload, error) {
		u := fmt.Sprintf("%s/api/v0/product/%s.json", t.baseURL, barcode)
		return upstream.GetJSON[openFoodFactsPayload](ctx, t.client, u)
	})
	if err != nil {
		return Info{}, err
	}

	name := common.FirstNonEmpty(payload.Product.ProductName, payload.Product.GenericName)
	if payload.Status != 1 || name == "" {
		return Info{}, ErrNoMatch
	}

	return Info{
		Name:     name,
		Brand:    payload.Product.Brands,
		Category: payload.Product.Categories,
		Image:    payload.Product.ImageURL,
		Source:   SourceOpenFoodFacts,
	}, nil
}
