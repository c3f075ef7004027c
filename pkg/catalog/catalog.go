// Package catalog serves the read side of the storefront: products,
// categories and site settings, with a simulated backend latency.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/example/tweenshop/pkg/config"
	"github.com/example/tweenshop/pkg/models"
)

var ErrProductNotFound = errors.New("product not found")

// Source is where the provider reads from.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Settings(ctx context.Context) (models.Settings, error)
}

// StaticSource serves fixtures held in memory.
type StaticSource struct {
	fixtures *Fixtures
}

func NewStaticSource(f *Fixtures) *StaticSource {
	return &StaticSource{fixtures: f}
}

func (s *StaticSource) Products(context.Context) ([]models.Product, error) {
	return append([]models.Product(nil), s.fixtures.Products...), nil
}

func (s *StaticSource) Categories(context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), s.fixtures.Categories...), nil
}

func (s *StaticSource) Settings(context.Context) (models.Settings, error) {
	return s.fixtures.Settings, nil
}

type Latency struct {
	Products   time.Duration
	Product    time.Duration
	Categories time.Duration
	Settings   time.Duration
}

func LatencyFromConfig(cfg config.CatalogConfig) Latency {
	return Latency{
		Products:   cfg.ProductsLatency,
		Product:    cfg.ProductLatency,
		Categories: cfg.CategoriesLatency,
		Settings:   cfg.SettingsLatency,
	}
}

type Provider struct {
	source  Source
	latency Latency
}

func NewProvider(source Source, latency Latency) *Provider {
	return &Provider{source: source, latency: latency}
}

// AllProducts returns products that have at least one image; image-less
// products would render as placeholder cards.
func (p *Provider) AllProducts(ctx context.Context) ([]models.Product, error) {
	if err := wait(ctx, p.latency.Products); err != nil {
		return nil, err
	}
	all, err := p.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(all))
	for _, prod := range all {
		if prod.HasImages() {
			out = append(out, prod)
		}
	}
	return out, nil
}

// ProductBySlug hides products without images like AllProducts does.
func (p *Provider) ProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	if err := wait(ctx, p.latency.Product); err != nil {
		return models.Product{}, err
	}
	all, err := p.source.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, prod := range all {
		if prod.Slug == slug {
			if !prod.HasImages() {
				break
			}
			return prod, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// ProductByID has no latency and ignores images. It backs cart and order
// lookups.
func (p *Provider) ProductByID(ctx context.Context, id string) (models.Product, error) {
	all, err := p.source.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, prod := range all {
		if prod.ID == id {
			return prod, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (p *Provider) Categories(ctx context.Context) ([]models.Category, error) {
	if err := wait(ctx, p.latency.Categories); err != nil {
		return nil, err
	}
	return p.source.Categories(ctx)
}

func (p *Provider) Settings(ctx context.Context) (models.Settings, error) {
	if err := wait(ctx, p.latency.Settings); err != nil {
		return models.Settings{}, err
	}
	return p.source.Settings(ctx)
}

// FilterByCategory keeps products whose category equals slug. An empty
// slug keeps everything.
func FilterByCategory(products []models.Product, slug string) []models.Product {
	if slug == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, prod := range products {
		if prod.Category == slug {
			out = append(out, prod)
		}
	}
	return out
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
