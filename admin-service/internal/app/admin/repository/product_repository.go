package repository

import (
	"context"
	"errors"

	"brocante/admin-service/internal/app/admin/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	return result.Error
}

// GetByID получает товар по ID
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetAll получает товары с учетом фильтра.
// Фильтр по подкатегории имеет приоритет над фильтром по категории.
// Категория разрешается через родителя подкатегории товара, а не через
// денормализованный category_id самой записи: так товары с несогласованной
// парой ссылок не попадают в чужую выборку.
func (r *productRepository) GetAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{})

	switch {
	case filter.SubcategoryID != nil:
		query = query.Where("products.subcategory_id = ?", *filter.SubcategoryID)
	case filter.CategoryID != nil:
		query = query.
			Joins("JOIN subcategories ON subcategories.id = products.subcategory_id").
			Where("subcategories.category_id = ?", *filter.CategoryID)
	}

	var products []entity.Product
	result := query.Order("products.created_at ASC").Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// Update заменяет запись товара целиком
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(product).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":             product.Name,
		"description":      product.Description,
		"price":            product.Price,
		"original_price":   product.OriginalPrice,
		"stock":            product.Stock,
		"category_id":      product.CategoryID,
		"subcategory_id":   product.SubcategoryID,
		"condition":        product.Condition,
		"is_promotion":     product.IsPromotion,
		"is_top_product":   product.IsTopProduct,
		"is_used":          product.IsUsed,
		"main_photo":       product.MainPhoto,
		"photos":           product.Photos,
		"extra_attributes": product.ExtraAttributes,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
