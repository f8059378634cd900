package service

import (
	"context"

	"brocante/admin-service/internal/app/admin/entity"

	"github.com/google/uuid"
)

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateSubcategory(ctx context.Context, req *entity.CreateSubcategoryRequest) (*entity.Subcategory, error)
	GetSubcategory(ctx context.Context, id uuid.UUID) (*entity.Subcategory, error)
	GetAllSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]entity.Subcategory, error)
	UpdateSubcategory(ctx context.Context, id uuid.UUID, req *entity.UpdateSubcategoryRequest) (*entity.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error

	ListAttributes(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) ([]entity.AttributeDefinition, error)
	ReplaceAttributes(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID, req *entity.ReplaceAttributesRequest) ([]entity.AttributeDefinition, error)
	AddAttribute(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID, req *entity.AttributeInput) (*entity.AttributeDefinition, error)
	DeleteAttribute(ctx context.Context, id uuid.UUID) error
}

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetAllProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
