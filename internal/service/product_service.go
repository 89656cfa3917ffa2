package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"autopartes/internal/catalog"
	"autopartes/internal/model"
	"autopartes/internal/repository"
	"autopartes/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxPageSize caps an explicit limit. No limit lists every match.
const maxPageSize = 100

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	images      storage.Store
	importer    *catalog.Importer
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	images storage.Store,
	importer *catalog.Importer,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		importer:    importer,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List returns products matching the filter. A limit <= 0 returns every match.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Categoria = strings.TrimSpace(filter.Categoria)
	filter.Marca = strings.TrimSpace(filter.Marca)
	filter.Search = strings.TrimSpace(filter.Search)

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("categoria", filter.Categoria).
		Str("marca", filter.Marca).
		Str("search", filter.Search).
		Msg("retrieved products")

	return products, nil
}

// Popular returns the n most popular products.
func (s *productService) Popular(ctx context.Context, n int) ([]model.Product, error) {
	if n <= 0 {
		return nil, model.ValidationError("n debe ser mayor que cero")
	}
	if n > maxPageSize {
		n = maxPageSize
	}

	products, err := s.productRepo.Popular(ctx, n)
	if err != nil {
		s.logger.Error().Err(err).Int("n", n).Msg("failed to get popular products")
		return nil, fmt.Errorf("failed to get popular products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and stores a new product.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest, actor string) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:        uuid.NewString(),
		Imagenes:  []string{},
		CreatedBy: actor,
		UpdatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.Apply(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("codigo", product.Codigo).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("codigo", product.Codigo).
		Str("actor", actor).
		Msg("product created")

	return product, nil
}

// Update validates and overwrites an existing product.
func (s *productService) Update(ctx context.Context, id string, req *model.ProductRequest, actor string) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(product)
	product.UpdatedBy = actor
	product.UpdatedAt = time.Now()

	found, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Str("actor", actor).Msg("product updated")
	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	found, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// UploadImage stores an image and appends its URL to the product.
func (s *productService) UploadImage(ctx context.Context, id string, body io.Reader) (string, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return "", err
	}

	url, err := storage.PutProductImage(ctx, s.images, id, body)
	if err != nil {
		if errors.Is(err, model.ErrInvalidImage) {
			return "", err
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to store product image")
		return "", fmt.Errorf("failed to store product image: %w", err)
	}

	found, err := s.productRepo.AddImage(ctx, id, url)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to add product image")
		return "", fmt.Errorf("failed to add product image: %w", err)
	}
	if !found {
		return "", model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Str("url", url).Msg("product image uploaded")
	return url, nil
}

// Import loads catalogue feeds from object storage and upserts them.
func (s *productService) Import(ctx context.Context, keys []string, actor string) (*catalog.Result, error) {
	if len(keys) == 0 {
		return nil, model.ValidationError("debes indicar al menos un archivo")
	}
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			return nil, model.ValidationError("el nombre de archivo no puede estar vacío")
		}
	}

	result, err := s.importer.Import(ctx, keys, actor)
	if err != nil {
		return result, fmt.Errorf("failed to import catalogue: %w", err)
	}

	return result, nil
}
