package repository

import (
	"context"
	"errors"

	"brocante/admin-service/internal/app/admin/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrAttributeNotFound   = errors.New("attribute not found")

	// Ошибки политики удаления: сущность с зависимыми записями не удаляется
	ErrCategoryHasSubcategories = errors.New("cannot delete category with existing subcategories")
	ErrCategoryHasProducts      = errors.New("cannot delete category with existing products")
	ErrSubcategoryHasProducts   = errors.New("cannot delete subcategory with existing products")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *entity.Subcategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Subcategory, error)
	GetAll(ctx context.Context) ([]entity.Subcategory, error)
	GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]entity.Subcategory, error)
	Update(ctx context.Context, subcategory *entity.Subcategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AttributeRepository хранит схемы атрибутов категорий и подкатегорий.
// Схема владельца заменяется только целиком, частичного patch нет.
type AttributeRepository interface {
	List(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) ([]entity.AttributeDefinition, error)
	Replace(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID, attributes []entity.AttributeDefinition) error
	Add(ctx context.Context, attribute *entity.AttributeDefinition) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRepository пишет журнал действий администраторов в MongoDB
type AuditRepository interface {
	Record(ctx context.Context, entry *entity.AuditEntry) error
	ListRecent(ctx context.Context, limit int64) ([]entity.AuditEntry, error)
}
