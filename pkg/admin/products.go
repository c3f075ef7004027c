package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/tweenshop/pkg/models"
	"github.com/example/tweenshop/pkg/paging"
	"github.com/example/tweenshop/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultCurrency = "EUR"

type ProductInput struct {
	Title       string          `json:"title" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Video       string          `json:"video,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
}

// ProductPatch carries the fields to overwrite; nil fields are kept.
type ProductPatch struct {
	Title       *string          `json:"title,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Video       *string          `json:"video,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
}

type ProductManager struct {
	store  CatalogStore
	audit  repository.AuditRecorder
	logger *zap.Logger
	now    func() time.Time
}

func NewProductManager(store CatalogStore, audit repository.AuditRecorder, logger *zap.Logger) *ProductManager {
	return &ProductManager{
		store:  store,
		audit:  audit,
		logger: logger.Named("admin.products"),
		now:    time.Now,
	}
}

// List pages every product, including those hidden from the storefront
// for lack of images.
func (m *ProductManager) List(ctx context.Context, page int) (paging.Page[models.Product], error) {
	products, err := m.store.Products(ctx)
	if err != nil {
		return paging.Page[models.Product]{}, err
	}
	return paging.New(products, page, paging.AdminProductsPerPage), nil
}

func (m *ProductManager) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if len(in.Images) == 0 {
		return models.Product{}, ErrImageRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Product{}, ErrTitleRequired
	}

	now := m.now()
	p := models.Product{
		ID:          models.NewID("prod", now),
		Slug:        models.Slugify(title),
		Title:       title,
		Price:       in.Price,
		Currency:    DefaultCurrency,
		Images:      append([]string(nil), in.Images...),
		Video:       in.Video,
		Description: in.Description,
		Category:    in.Category,
		Stock:       in.Stock,
		Tags:        []string{},
		CreatedAt:   now.UTC(),
	}

	err := m.store.UpdateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		return append(products, p), nil
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to save products: %w", err)
	}

	m.logger.Info("Product created", zap.String("product_id", p.ID), zap.String("slug", p.Slug))
	record(ctx, m.audit, m.logger, "create_product", p.ID, map[string]interface{}{"title": p.Title})
	return p, nil
}

// Update merges patch into product id. The slug is kept even when the
// title changes so existing links keep working.
func (m *ProductManager) Update(ctx context.Context, id string, patch ProductPatch) (models.Product, error) {
	if patch.Images != nil && len(patch.Images) == 0 {
		return models.Product{}, ErrImageRequired
	}

	var updated models.Product
	err := m.store.UpdateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID != id {
				continue
			}
			patch.apply(&products[i])
			if !products[i].HasImages() {
				return nil, ErrImageRequired
			}
			updated = products[i]
			return products, nil
		}
		return nil, ErrProductNotFound
	})
	if err != nil {
		return models.Product{}, err
	}

	m.logger.Info("Product updated", zap.String("product_id", id))
	record(ctx, m.audit, m.logger, "update_product", id, nil)
	return updated, nil
}

func (p ProductPatch) apply(dst *models.Product) {
	if p.Title != nil {
		dst.Title = strings.TrimSpace(*p.Title)
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Images != nil {
		dst.Images = append([]string(nil), p.Images...)
	}
	if p.Video != nil {
		dst.Video = *p.Video
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	if p.Rating != nil {
		dst.Rating = *p.Rating
	}
	if p.Tags != nil {
		dst.Tags = append([]string(nil), p.Tags...)
	}
}

func (m *ProductManager) RequestDelete(ctx context.Context, c *Confirmation, id string) error {
	products, err := m.store.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.ID == id {
			c.Request(id)
			return nil
		}
	}
	return ErrProductNotFound
}

func (m *ProductManager) ConfirmDelete(ctx context.Context, c *Confirmation) (string, error) {
	id, ok := c.Confirm()
	if !ok {
		return "", ErrNoPendingConfirmation
	}
	err := m.store.UpdateProducts(ctx, func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}
		return nil, ErrProductNotFound
	})
	if err != nil {
		return id, err
	}

	m.logger.Info("Product deleted", zap.String("product_id", id))
	record(ctx, m.audit, m.logger, "delete_product", id, nil)
	return id, nil
}

func (m *ProductManager) Categories(ctx context.Context) ([]models.Category, error) {
	return m.store.Categories(ctx)
}

// AddCategory appends a category named name, slugged like products.
func (m *ProductManager) AddCategory(ctx context.Context, name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, ErrCategoryNameRequired
	}
	cat := models.Category{
		ID:   models.NewID("cat", m.now()),
		Slug: models.Slugify(name),
		Name: name,
	}
	err := m.store.UpdateCategories(ctx, func(categories []models.Category) ([]models.Category, error) {
		return append(categories, cat), nil
	})
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to save categories: %w", err)
	}

	record(ctx, m.audit, m.logger, "add_category", cat.ID, map[string]interface{}{"name": name})
	return cat, nil
}
