package product

import (
	"context"
	"errors"
	"log"

	"github.com/DanielChillemi/pourcast/internal/metrics"
)

// ErrNoMatch reports that a tier has no data for a barcode. Tiers return
// it to hand the lookup to the next tier.
var ErrNoMatch = errors.New("no product match")

// Source identifies which database answered a lookup.
type Source string

const (
	SourceOpenFoodFacts Source = "openfoodfacts"
	SourceUPCItemDB     Source = "upcitemdb"
	SourceBarcodeLookup Source = "barcodelookup"
	SourceCocktailDB    Source = "cocktaildb"
	SourceFallback      Source = "fallback"
	SourceDatabase      Source = "database"
)

// Info is normalized product data from whichever tier answered.
type Info struct {
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
	Image    string `json:"image,omitempty"`
	Source   Source `json:"source"`
}

// Tier is one external product database in the fallback chain.
type Tier interface {
	Name() string
	Lookup(ctx context.Context, barcode string) (Info, error)
}

// Resolver walks tiers in order and returns the first hit. Tier errors
// are logged and skipped; when every tier comes up empty the caller
// gets a stub with the fallback source.
type Resolver struct {
	tiers []Tier
	met   *metrics.Registry
}

func NewResolver(met *metrics.Registry, tiers ...Tier) *Resolver {
	return &Resolver{tiers: tiers, met: met}
}

func (r *Resolver) Lookup(ctx context.Context, barcode string) Info {
	for _, tier := range r.tiers {
		info, err := tier.Lookup(ctx, barcode)
		if err != nil {
			if !errors.Is(err, ErrNoMatch) {
				log.Printf("product: tier %s failed for %s: %v", tier.Name(), barcode, err)
			}
			continue
		}
		r.met.Resolutions.WithLabelValues(string(info.Source)).Inc()
		return info
	}

	r.met.Resolutions.WithLabelValues(string(SourceFallback)).Inc()
	return Info{Name: "Unknown Product", Source: SourceFallback}
}
