package product

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/DanielChillemi/pourcast/internal/cache"
	"github.com/DanielChillemi/pourcast/internal/upstream"
)

type upcItemDBPayload struct {
	Code  string `json:"code"`
	Items []struct {
		Title    string   `json:"title"`
		Brand    string   `json:"brand"`
		Category string   `json:"category"`
		Images   []string `json:"images"`
	} `json:"items"`
}

// UPCItemDBTier queries the UPCitemdb trial endpoint, the second tier.
// The trial plan allows 100 lookups per day, so the window is a day.
type UPCItemDBTier struct {
	baseURL string
	client  *upstream.Client
	store   *cache.Store
	limits  cache.Limits
}

func NewUPCItemDBTier(store *cache.Store, httpc *http.Client, ttl time.Duration) *UPCItemDBTier {
	return &UPCItemDBTier{
		baseURL: "https://api.upcitemdb.com",
		client:  upstream.NewClient("upcitemdb", httpc),
		store:   store,
		limits:  cache.Limits{TTL: ttl, MaxCalls: 100, Window: 24 * time.Hour},
	}
}

func (t *UPCItemDBTier) Name() string { return "upcitemdb" }

func (t *UPCItemDBTier) Lookup(ctx context.Context, barcode string) (Info, error) {
	payload, err := cache.GetOrFetch(ctx, t.store, t.Name(), barcode, t.limits, func(ctx context.Context) (upcItemDBPayload, error) {
		u := fmt.Sprintf("%s/prod/trial/lookup?upc=%s", t.baseURL, barcode)
		return upstream.GetJSON[upcItemDBPayload](ctx, t.client, u)
	})
	if err != nil {
		return Info{}, err
	}

	if payload.Code != "OK" || len(payload.Items) == 0 {
		return Info{}, ErrNoMatch
	}

	item := payload.Items[0]
	if item.Title == "" {
		return Info{}, ErrNoMatch
	}

	info := Info{
		Name:     item.Title,
		Brand:    item.Brand,
		Category: item.Category,
		Source:   SourceUPCItemDB,
	}
	if len(item.Images) > 0 {
		info.Image = item.Images[0]
	}
	return info, nil
}
