package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no product matches a lookup.
var ErrNotFound = errors.New("product not found")

// Product is one sellable item in the venue's catalog. Price stays a
// decimal string end to end to avoid float drift. ParLevel and LastCount
// are nil until someone configures or counts the product.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Barcode    string    `json:"barcode"`
	CategoryID int       `json:"categoryId"`
	Price      string    `json:"price"`
	ParLevel   *int      `json:"parLevel"`
	LastCount  *int      `json:"lastCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store is the catalog persistence contract.
type Store interface {
	// InsertOrGet atomically inserts the product or, when the barcode is
	// already taken, returns the existing row. The boolean reports
	// whether a new row was created. Two concurrent calls for the same
	// barcode must yield the same product with exactly one creation.
	InsertOrGet(ctx context.Context, p Product) (Product, bool, error)
	GetByBarcode(ctx context.Context, barcode string) (Product, error)
	List(ctx context.Context) ([]Product, error)
}
