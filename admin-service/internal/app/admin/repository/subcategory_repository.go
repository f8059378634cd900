package repository

import (
	"context"
	"errors"

	"brocante/admin-service/internal/app/admin/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subcategoryRepository struct {
	db *gorm.DB
}

// NewSubcategoryRepository создает новый репозиторий подкатегорий
func NewSubcategoryRepository(db *gorm.DB) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

// Create создает новую подкатегорию
func (r *subcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	result := r.db.WithContext(ctx).Create(subcategory)
	return result.Error
}

// GetByID получает подкатегорию по ID
func (r *subcategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Subcategory, error) {
	var subcategory entity.Subcategory
	result := r.db.WithContext(ctx).First(&subcategory, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, result.Error
	}

	return &subcategory, nil
}

// GetAll получает все подкатегории в порядке создания
func (r *subcategoryRepository) GetAll(ctx context.Context) ([]entity.Subcategory, error) {
	var subcategories []entity.Subcategory
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&subcategories)

	if result.Error != nil {
		return nil, result.Error
	}

	return subcategories, nil
}

// GetByCategoryID получает подкатегории одной категории в порядке создания
func (r *subcategoryRepository) GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]entity.Subcategory, error) {
	var subcategories []entity.Subcategory
	result := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at ASC").
		Find(&subcategories)

	if result.Error != nil {
		return nil, result.Error
	}

	return subcategories, nil
}

// Update заменяет name, category_id и image подкатегории целиком
func (r *subcategoryRepository) Update(ctx context.Context, subcategory *entity.Subcategory) error {
	result := r.db.WithContext(ctx).Model(subcategory).Where("id = ?", subcategory.ID).Updates(map[string]interface{}{
		"name":        subcategory.Name,
		"category_id": subcategory.CategoryID,
		"image":       subcategory.Image,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSubcategoryNotFound
	}

	return nil
}

// Delete удаляет подкатегорию.
// Подкатегория с товарами не удаляется.
func (r *subcategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var productCount int64
	if err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("subcategory_id = ?", id).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return ErrSubcategoryHasProducts
	}

	result := r.db.WithContext(ctx).Delete(&entity.Subcategory{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSubcategoryNotFound
	}

	return nil
}
