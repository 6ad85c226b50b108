package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	ListProducts(ctx context.Context, categoryID string, activeOnly bool) ([]*Product, error)

	// LowStockReport lists active products at or below their threshold,
	// oversold products first.
	LowStockReport(ctx context.Context) ([]*Product, error)
}

type service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if req.Name == "" || req.Slug == "" {
		return nil, fmt.Errorf("name and slug are required")
	}
	if req.PriceMinor <= 0 {
		return nil, fmt.Errorf("price_minor must be greater than 0")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("invalid category_id: %w", err)
	}

	p := &Product{
		ID:                uuid.New(),
		CategoryID:        categoryID,
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		PriceMinor:        req.PriceMinor,
		SalePriceMinor:    req.SalePriceMinor,
		SKU:               req.SKU,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		Material:          req.Material,
		Color:             req.Color,
		IsActive:          true,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetProductBySlug(ctx, slug)
}

func (s *service) ListProducts(ctx context.Context, categoryID string, activeOnly bool) ([]*Product, error) {
	return s.repo.ListProducts(ctx, categoryID, activeOnly)
}

func (s *service) LowStockReport(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}
