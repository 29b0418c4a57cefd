package service

import (
	"context"
	"time"

	"storefront-service/internal/cache"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ProductStore is the catalog repository surface the services depend on.
type ProductStore interface {
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int64, error)
}

// CatalogCache caches public catalog reads. A nil cache disables caching.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// CatalogService handles product browsing and admin product CRUD.
type CatalogService struct {
	products ProductStore
	cache    CatalogCache
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(products ProductStore, cache CatalogCache) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		logger:   util.GetLogger(),
	}
}

// List retrieves products matching the filter. The unfiltered lightweight
// listing is served through the cache; filtered queries always hit the store.
func (s *CatalogService) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	cacheable := s.cache != nil && f.IsZero() && !f.IncludeDescription

	if cacheable {
		var cached []models.Product
		hit, err := s.cache.GetJSON(ctx, cache.ProductListKey, &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		} else if hit {
			util.CatalogCacheHits.Inc()
			return cached, nil
		}
		util.CatalogCacheMisses.Inc()
	}

	products, err := s.products.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, cache.ProductListKey, products); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// Get retrieves a single product, read-through cached.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		var cached models.Product
		hit, err := s.cache.GetJSON(ctx, cache.ProductKey(id), &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		} else if hit {
			util.CatalogCacheHits.Inc()
			return &cached, nil
		}
		util.CatalogCacheMisses.Inc()
	}

	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.ProductKey(id), product); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return product, nil
}

// CreateProductRequest carries the fields for a new product. The legacy
// image_url field is accepted as a one-image fallback when images is empty.
type CreateProductRequest struct {
	DesignNo    string   `json:"design_no"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Material    string   `json:"material"`
	Color       string   `json:"color"`
	Images      []string `json:"images"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category"`
	InStock     *bool    `json:"in_stock"`
}

// Create inserts a new product with a generated id and image_url synced to
// the first image.
func (s *CatalogService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	images := req.Images
	if len(images) == 0 && req.ImageURL != "" {
		images = []string{req.ImageURL}
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		DesignNo:    req.DesignNo,
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Material:    req.Material,
		Color:       req.Color,
		Images:      pq.StringArray(images),
		ImageURL:    models.PrimaryImage(images),
		Category:    req.Category,
		InStock:     inStock,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	util.ProductWritesTotal.WithLabelValues("create").Inc()
	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))

	s.invalidate(ctx, product.ID)
	return product, nil
}

// Update applies a partial update. An empty patch is rejected; when images
// change, image_url is re-derived from the new first image.
func (s *CatalogService) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if patch.IsEmpty() {
		return nil, validationErr("Nothing to update")
	}

	if patch.Images != nil {
		imageURL := models.PrimaryImage(*patch.Images)
		patch.ImageURL = &imageURL
	}

	product, err := s.products.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	util.ProductWritesTotal.WithLabelValues("update").Inc()
	s.invalidate(ctx, id)
	return product, nil
}

// Delete removes a product.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}

	util.ProductWritesTotal.WithLabelValues("delete").Inc()
	s.logger.Info("Product deleted", zap.String("product_id", id))

	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ProductListKey, cache.ProductKey(id)); err != nil {
		s.logger.Warn("Catalog cache invalidation failed",
			zap.String("product_id", id),
			zap.Error(err))
	}
}
