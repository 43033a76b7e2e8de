package product

import (
	"context"
	"errors"
	"testing"

	"github.com/DanielChillemi/pourcast/internal/metrics"
)

type stubTier struct {
	name string
	info Info
	err  error
}

func (s stubTier) Name() string { return s.name }

func (s stubTier) Lookup(ctx context.Context, barcode string) (Info, error) {
	return s.info, s.err
}

func TestResolverFirstHitWins(t *testing.T) {
	r := NewResolver(metrics.NewRegistry(),
		stubTier{name: "miss", err: ErrNoMatch},
		stubTier{name: "hit", info: Info{Name: "Corona Extra", Source: SourceUPCItemDB}},
		stubTier{name: "later", info: Info{Name: "Wrong Answer", Source: SourceCocktailDB}},
	)

	got := r.Lookup(context.Background(), "080660956435")

	if got.Name != "Corona Extra" || got.Source != SourceUPCItemDB {
		t.Errorf("unexpected info: %+v", got)
	}
}

func TestResolverSkipsFailingTiers(t *testing.T) {
	r := NewResolver(metrics.NewRegistry(),
		stubTier{name: "broken", err: errors.New("connection refused")},
		stubTier{name: "hit", info: Info{Name: "Margarita", Source: SourceCocktailDB}},
	)

	got := r.Lookup(context.Background(), "080660956435")

	if got.Name != "Margarita" {
		t.Errorf("expected the healthy tier to answer, got %+v", got)
	}
}

func TestResolverFallsBackToStub(t *testing.T) {
	r := NewResolver(metrics.NewRegistry(),
		stubTier{name: "a", err: ErrNoMatch},
		stubTier{name: "b", err: errors.New("boom")},
	)

	got := r.Lookup(context.Background(), "000000000000")

	if got.Name != "Unknown Product" || got.Source != SourceFallback {
		t.Errorf("expected fallback stub, got %+v", got)
	}
}

func TestResolverWithNoTiers(t *testing.T) {
	r := NewResolver(metrics.NewRegistry())

	got := r.Lookup(context.Background(), "080660956435")

	if got.Source != SourceFallback {
		t.Errorf("expected fallback with an empty chain, got %+v", got)
	}
}
