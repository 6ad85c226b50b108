package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	products map[string]*Product
}

func newMemRepo() *memRepo {
	return &memRepo{products: map[string]*Product{}}
}

func (m *memRepo) CreateProduct(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Slug == p.Slug {
			return fmt.Errorf("duplicate slug %q", p.Slug)
		}
	}
	cp := *p
	m.products[p.ID.String()] = &cp
	return nil
}

func (m *memRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("product %s not found", slug)
}

func (m *memRepo) ListProducts(ctx context.Context, categoryID string, activeOnly bool) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if categoryID != "" && p.CategoryID.String() != categoryID {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepo) ListLowStock(ctx context.Context) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if p.IsActive && p.StockQuantity <= p.LowStockThreshold {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockQuantity < out[j].StockQuantity })
	return out, nil
}

func (m *memRepo) setStock(productID string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[productID].StockQuantity = quantity
}

func validRequest() CreateProductRequest {
	return CreateProductRequest{
		CategoryID:        uuid.NewString(),
		Name:              "Oak Dining Table",
		Slug:              "oak-dining-table",
		PriceMinor:        125000_00,
		StockQuantity:     12,
		LowStockThreshold: 3,
		Material:          "oak",
	}
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newMemRepo())

	p, err := svc.CreateProduct(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, p.ID)
	require.True(t, p.IsActive)
	require.Equal(t, 12, p.StockQuantity)

	got, err := svc.GetProductBySlug(context.Background(), "oak-dining-table")
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newMemRepo())

	req := validRequest()
	req.Name = ""
	_, err := svc.CreateProduct(context.Background(), req)
	require.Error(t, err)

	req = validRequest()
	req.PriceMinor = 0
	_, err = svc.CreateProduct(context.Background(), req)
	require.Error(t, err)

	req = validRequest()
	req.CategoryID = "not-a-uuid"
	_, err = svc.CreateProduct(context.Background(), req)
	require.Error(t, err)
}

func TestEffectivePriceMinor(t *testing.T) {
	sale := int64(99_00)
	p := &Product{PriceMinor: 150_00, SalePriceMinor: &sale}
	require.Equal(t, int64(99_00), p.EffectivePriceMinor())

	p.SalePriceMinor = nil
	require.Equal(t, int64(150_00), p.EffectivePriceMinor())

	zero := int64(0)
	p.SalePriceMinor = &zero
	require.Equal(t, int64(150_00), p.EffectivePriceMinor())
}

func TestLowStockReport(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	mk := func(slug string, stock, threshold int) *Product {
		req := validRequest()
		req.Slug = slug
		req.Name = slug
		req.StockQuantity = stock
		req.LowStockThreshold = threshold
		p, err := svc.CreateProduct(ctx, req)
		require.NoError(t, err)
		return p
	}

	mk("plenty", 50, 5)
	low := mk("running-low", 3, 5)
	oversold := mk("oversold", 1, 5)
	repo.setStock(oversold.ID.String(), -2)

	report, err := svc.LowStockReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)
	require.Equal(t, oversold.ID, report[0].ID)
	require.True(t, report[0].Oversold())
	require.Equal(t, low.ID, report[1].ID)
	require.False(t, report[1].Oversold())
}
