package product

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/DanielChillemi/pourcast/internal/cache"
	"github.com/DanielChillemi/pourcast/internal/upstream"
)

type cocktailDBPayload struct {
	Drinks []struct {
		StrDrink      string `json:"strDrink"`
		StrCategory   string `json:"strCategory"`
		StrDrinkThumb string `json:"strDrinkThumb"`
	} `json:"drinks"`
}

// CocktailDBTier is the last-resort tier. It searches TheCocktailDB by
// the last four digits of the barcode, a fuzzy heuristic that sometimes
// rescues house-labeled bottles. Only full-length barcodes qualify.
type CocktailDBTier struct {
	baseURL string
	client  *upstream.Client
	store   *cache.Store
	limits  cache.Limits
}

func NewCocktailDBTier(store *cache.Store, httpc *http.Client, ttl time.Duration) *CocktailDBTier {
	return &CocktailDBTier{
		baseURL: "https://www.thecocktaildb.com",
		client:  upstream.NewClient("cocktaildb", httpc),
		store:   store,
		limits:  cache.Limits{TTL: ttl, MaxCalls: 60, Window: time.Minute},
	}
}

func (t *CocktailDBTier) Name() string { return "cocktaildb" }

func (t *CocktailDBTier) Lookup(ctx context.Context, barcode string) (Info, error) {
	if len(barcode) < 8 {
		return Info{}, ErrNoMatch
	}
	last4 := barcode[len(barcode)-4:]

	payload, err := cache.GetOrFetch(ctx, t.store, t.Name(), last4, t.limits, func(ctx context.Context) (cocktailDBPayload, error) {
		u := fmt.Sprintf("%s/api/json/v1/1/search.php?s=%s", t.baseURL, last4)
		return upstream.GetJSON[cocktailDBPayload](ctx, t.client, u)
	})
	if err != nil {
		return Info{}, err
	}

	// The API returns a JSON null drinks field on no match.
	if len(payload.Drinks) == 0 || payload.Drinks[0].StrDrink == "" {
		return Info{}, ErrNoMatch
	}

	drink := payload.Drinks[0]
	return Info{
		Name:     drink.StrDrink,
		Category: drink.StrCategory,
		Image:    drink.StrDrinkThumb,
		Source:   SourceCocktailDB,
	}, nil
}
