package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps the catalog in process memory, for demo installs and
// tests. List preserves insertion order.
type MemoryStore struct {
	mu        sync.RWMutex
	byBarcode map[string]int
	products  []Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byBarcode: make(map[string]int)}
}

func (m *MemoryStore) InsertOrGet(ctx context.Context, p Product) (Product, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.byBarcode[p.Barcode]; ok {
		return m.products[idx], false, nil
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	m.byBarcode[p.Barcode] = len(m.products)
	m.products = append(m.products, p)
	return p, true, nil
}

func (m *MemoryStore) GetByBarcode(ctx context.Context, barcode string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.byBarcode[barcode]
	if !ok {
		return Product{}, ErrNotFound
	}
	return m.products[idx], nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

// Seed inserts products, keeping existing rows on barcode collisions.
func (m *MemoryStore) Seed(ctx context.Context, products []Product) error {
	for _, p := range products {
		if _, _, err := m.InsertOrGet(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func intp(v int) *int { return &v }

// DemoStock is a starter catalog for installs that run without a
// database. A few items are deliberately uncounted or unconfigured so
// the demo defaults path in the reorder generator has something to do.
func DemoStock() []Product {
	return []Product{
		{Name: "Bud Light 12oz Bottle", SKU: "BEER-001", Barcode: "018200118210", CategoryID: 1, Price: "4.50", ParLevel: intp(48), LastCount: intp(30)},
		{Name: "Miller Lite 12oz Can", SKU: "BEER-002", Barcode: "034100012090", CategoryID: 1, Price: "4.00", ParLevel: intp(48), LastCount: intp(12)},
		{Name: "Corona Extra 12oz Bottle", SKU: "BEER-003", Barcode: "080660956435", CategoryID: 1, Price: "5.50", ParLevel: intp(36), LastCount: intp(36)},
		{Name: "Local Hazy IPA Draft", SKU: "BEER-004", Barcode: "860004123456", CategoryID: 1, Price: "7.00", ParLevel: intp(24)},
		{Name: "Cabernet Sauvignon 750ml", SKU: "WINE-001", Barcode: "085000019702", CategoryID: 2, Price: "32.00", ParLevel: intp(12), LastCount: intp(4)},
		{Name: "Pinot Grigio 750ml", SKU: "WINE-002", Barcode: "089832401124", CategoryID: 2, Price: "28.00", ParLevel: intp(12)},
		{Name: "House Prosecco 750ml", SKU: "WINE-003", Barcode: "008500002078", CategoryID: 2, Price: "30.00", ParLevel: intp(8), LastCount: intp(8)},
		{Name: "Tito's Handmade Vodka 1L", SKU: "SPIR-001", Barcode: "619947000021", CategoryID: 3, Price: "42.00", ParLevel: intp(6), LastCount: intp(2)},
		{Name: "Jameson Irish Whiskey 750ml", SKU: "SPIR-002", Barcode: "080432400524", CategoryID: 3, Price: "38.00", ParLevel: intp(6), LastCount: intp(5)},
		{Name: "Espolon Blanco Tequila 750ml", SKU: "SPIR-003", Barcode: "721059001828", CategoryID: 3, Price: "36.00", ParLevel: intp(6)},
		{Name: "Angostura Bitters 4oz", SKU: "MISC-001", Barcode: "075496000124", Price: "12.00", ParLevel: intp(4), LastCount: intp(3)},
		{Name: "Grenadine Syrup 1L", SKU: "MISC-002", Barcode: "089674332102", Price: "9.00"},
	}
}
