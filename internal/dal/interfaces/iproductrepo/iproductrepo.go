package iproductrepo

import (
	"context"

	"github.com/warungnusantara/storefront/internal/service/models/product"
)

// IProductRepository is an interface for the product postgres repository.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}
