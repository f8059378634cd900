package repository

import (
	"context"
	"errors"

	"brocante/admin-service/internal/app/admin/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create создает новую категорию
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Create(category)
	return result.Error
}

// GetByID получает категорию по ID
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	result := r.db.WithContext(ctx).First(&category, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}

	return &category, nil
}

// GetAll получает все категории в порядке создания
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&categories)

	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

// Update заменяет name и image категории целиком
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Model(category).Where("id = ?", category.ID).Updates(map[string]interface{}{
		"name":  category.Name,
		"image": category.Image,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete удаляет категорию.
// Категория с подкатегориями или товарами не удаляется: сначала
// проверяются зависимые записи, это защищает от осиротевших ссылок.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var subcategoryCount int64
	if err := r.db.WithContext(ctx).Model(&entity.Subcategory{}).
		Where("category_id = ?", id).Count(&subcategoryCount).Error; err != nil {
		return err
	}
	if subcategoryCount > 0 {
		return ErrCategoryHasSubcategories
	}

	var productCount int64
	if err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return ErrCategoryHasProducts
	}

	result := r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
