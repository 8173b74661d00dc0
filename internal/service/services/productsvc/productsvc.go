package productsvc

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/warungnusantara/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/warungnusantara/storefront/internal/service/models/product"
)

// imageStore uploads product photos and returns their public URL.
type imageStore interface {
	Upload(ctx context.Context, image io.Reader) (string, error)
}

// describer turns an image into model-generated text.
type describer interface {
	DescribeImage(ctx context.Context, mimeType string, data []byte, prompt string) (string, error)
}

// ProductService manages the catalog and the image-to-product extraction
// helper.
type ProductService struct {
	productRepo iproductrepo.IProductRepository
	images      imageStore
	describer   describer
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProductRepository sets the product repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *ProductService) {
		s.productRepo = repo
	}
}

// WithImageStore sets the image upload client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithImageStore(store imageStore) option {
	return func(s *ProductService) {
		s.images = store
	}
}

// WithDescriber sets the generative image description client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDescriber(d describer) option {
	return func(s *ProductService) {
		s.describer = d
	}
}

// ListProducts returns the whole catalog, newest first.
func (s *ProductService) ListProducts(ctx context.Context) ([]product.Product, error) {
	return s.productRepo.List(ctx)
}

// GetProduct returns one catalog entry.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// CreateProduct adds a catalog entry.
func (s *ProductService) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.productRepo.Insert(ctx, p)
}

// UpdateProduct overwrites a catalog entry's mutable fields.
func (s *ProductService) UpdateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	p.UpdatedAt = time.Now()

	return s.productRepo.Update(ctx, p)
}

// DeleteProduct removes a catalog entry.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}
