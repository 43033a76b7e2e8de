package product

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/DanielChillemi/pourcast/internal/catalog"
	"github.com/DanielChillemi/pourcast/internal/common"
	"github.com/DanielChillemi/pourcast/internal/metrics"
)

// barcodePattern matches UPC-A and EAN-13 digit runs.
var barcodePattern = regexp.MustCompile(`\b\d{12,13}\b`)

// ErrNoBarcode reports that scanned text contains no usable barcode.
var ErrNoBarcode = errors.New("no barcode found")

// ExtractBarcode pulls the first 12 or 13 digit run out of OCR text.
func ExtractBarcode(text string) (string, error) {
	m := barcodePattern.FindString(text)
	if m == "" {
		return "", ErrNoBarcode
	}
	return m, nil
}

// Scanner resolves scanned barcodes and files new products into the
// catalog.
type Scanner struct {
	resolver *Resolver
	store    catalog.Store
	met      *metrics.Registry
}

func NewScanner(resolver *Resolver, store catalog.Store, met *metrics.Registry) *Scanner {
	return &Scanner{resolver: resolver, store: store, met: met}
}

// ScanResult is what a barcode scan produced. Product is nil when the
// scan fell through to the fallback stub or the catalog write failed.
type ScanResult struct {
	Barcode string
	Info    Info
	Product *catalog.Product
	Created bool
}

// Resolve looks a barcode up through the tier chain and files real
// matches into the catalog under a UPC-derived SKU. Fallback stubs are
// never filed, and a catalog failure downgrades the scan rather than
// failing it.
func (s *Scanner) Resolve(ctx context.Context, barcode string) ScanResult {
	info := s.resolver.Lookup(ctx, barcode)
	result := ScanResult{Barcode: barcode, Info: info}

	if info.Source == SourceFallback {
		return result
	}

	par := 10
	filed, wasNew, err := s.store.InsertOrGet(ctx, catalog.Product{
		Name:       info.Name,
		SKU:        "UPC-" + barcode,
		Barcode:    barcode,
		CategoryID: categoryIDFor(info.Category),
		Price:      "0.00",
		ParLevel:   &par,
	})
	if err != nil {
		log.Printf("product: filing %s in catalog failed: %v", barcode, err)
		return result
	}

	result.Product = &filed
	result.Created = wasNew
	if wasNew {
		s.met.CatalogCreates.Inc()
	}
	return result
}

// ResolveText extracts a barcode from OCR text and resolves it.
func (s *Scanner) ResolveText(ctx context.Context, text string) (ScanResult, error) {
	barcode, err := ExtractBarcode(text)
	if err != nil {
		return ScanResult{}, err
	}
	return s.Resolve(ctx, barcode), nil
}

// categoryIDFor maps free-form category text onto catalog category ids.
func categoryIDFor(category string) int {
	c := strings.ToLower(category)
	switch {
	case common.HasAny(c, "beer", "ale", "lager"):
		return 1
	case common.HasAny(c, "wine", "champagne", "prosecco"):
		return 2
	case common.HasAny(c, "spirit", "liquor", "whiskey", "whisky", "vodka", "tequila", "rum", "gin", "cocktail"):
		return 3
	default:
		return 0
	}
}
