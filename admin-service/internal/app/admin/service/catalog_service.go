package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/repository"
	"brocante/admin-service/internal/app/admin/util"
	"brocante/pkg/logger"

	"github.com/google/uuid"
)

// CatalogService обрабатывает бизнес-логику иерархии каталога:
// категории, подкатегории и их схемы атрибутов.
// Схемы категории и подкатегории независимы и никогда не объединяются.
type CatalogService struct {
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	attributeRepo   repository.AttributeRepository
	auditRepo       repository.AuditRepository
	cache           util.ListCache
	cacheTTL        time.Duration
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	attributeRepo repository.AttributeRepository,
	auditRepo repository.AuditRepository,
	cache util.ListCache,
	cacheTTL time.Duration,
) *CatalogService {
	return &CatalogService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		attributeRepo:   attributeRepo,
		auditRepo:       auditRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
	}
}

// === CATEGORIES ===

// CreateCategory создает категорию вместе со схемой атрибутов
// и инвалидирует кеш списка категорий
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	category := &entity.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		Image:     req.Image,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	attributes := buildAttributes(entity.OwnerCategory, category.ID, req.Attributes)
	if err := s.attributeRepo.Replace(ctx, entity.OwnerCategory, category.ID, attributes); err != nil {
		return nil, fmt.Errorf("failed to save category attributes: %w", err)
	}
	category.Attributes = attributes

	s.invalidateCategories(ctx)
	recordAudit(ctx, s.auditRepo, "create", "category", category.ID.String())

	return category, nil
}

// GetCategory получает категорию по ID вместе со схемой атрибутов
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	attributes, err := s.attributeRepo.List(ctx, entity.OwnerCategory, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category attributes: %w", err)
	}
	category.Attributes = attributes

	return category, nil
}

// GetAllCategories получает все категории с кешированием в Redis.
// Список отдается без схем атрибутов: схема запрашивается отдельным
// endpoint при открытии формы редактирования.
func (s *CatalogService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.cache.GetCategories(ctx)
	if err == nil && len(categories) > 0 {
		return categories, nil
	}

	categories, err = s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if err := s.cache.SetCategories(ctx, categories, s.cacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("failed to cache categories")
	}

	return categories, nil
}

// UpdateCategory заменяет name, image и схему атрибутов категории целиком.
// Повторное применение того же запроса дает то же состояние.
// extra_attributes существующих товаров при смене схемы не трогаются.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	category.Name = req.Name
	category.Image = req.Image

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	attributes := buildAttributes(entity.OwnerCategory, id, req.Attributes)
	if err := s.attributeRepo.Replace(ctx, entity.OwnerCategory, id, attributes); err != nil {
		return nil, fmt.Errorf("failed to replace category attributes: %w", err)
	}
	category.Attributes = attributes

	s.invalidateCategories(ctx)
	recordAudit(ctx, s.auditRepo, "update", "category", id.String())

	return category, nil
}

// DeleteCategory удаляет категорию и ее схему атрибутов.
// Категория с подкатегориями или товарами не удаляется.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return ErrCategoryNotFound
		case errors.Is(err, repository.ErrCategoryHasSubcategories):
			return ErrCategoryHasSubcategories
		case errors.Is(err, repository.ErrCategoryHasProducts):
			return ErrCategoryHasProducts
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if err := s.attributeRepo.DeleteByOwner(ctx, entity.OwnerCategory, id); err != nil {
		// Категория уже удалена, осиротевшая схема не ломает чтения
		logger.Warn().Err(err).Str("category_id", id.String()).Msg("failed to delete category attributes")
	}

	s.invalidateCategories(ctx)
	recordAudit(ctx, s.auditRepo, "delete", "category", id.String())

	return nil
}

// === SUBCATEGORIES ===

// CreateSubcategory создает подкатегорию внутри существующей категории.
// Несуществующий category_id отклоняется до записи.
func (s *CatalogService) CreateSubcategory(ctx context.Context, req *entity.CreateSubcategoryRequest) (*entity.Subcategory, error) {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	subcategory := &entity.Subcategory{
		ID:         uuid.New(),
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Image:      req.Image,
		CreatedAt:  time.Now(),
	}

	if err := s.subcategoryRepo.Create(ctx, subcategory); err != nil {
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}

	attributes := buildAttributes(entity.OwnerSubcategory, subcategory.ID, req.Attributes)
	if err := s.attributeRepo.Replace(ctx, entity.OwnerSubcategory, subcategory.ID, attributes); err != nil {
		return nil, fmt.Errorf("failed to save subcategory attributes: %w", err)
	}
	subcategory.Attributes = attributes

	s.invalidateSubcategories(ctx)
	recordAudit(ctx, s.auditRepo, "create", "subcategory", subcategory.ID.String())

	return subcategory, nil
}

// GetSubcategory получает подкатегорию по ID вместе со схемой атрибутов
func (s *CatalogService) GetSubcategory(ctx context.Context, id uuid.UUID) (*entity.Subcategory, error) {
	subcategory, err := s.subcategoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubcategoryNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	attributes, err := s.attributeRepo.List(ctx, entity.OwnerSubcategory, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load subcategory attributes: %w", err)
	}
	subcategory.Attributes = attributes

	return subcategory, nil
}

// GetAllSubcategories получает подкатегории.
// Без фильтра список кешируется; выборка по категории идет мимо кеша.
func (s *CatalogService) GetAllSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]entity.Subcategory, error) {
	if categoryID != nil {
		subcategories, err := s.subcategoryRepo.GetByCategoryID(ctx, *categoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to get subcategories by category: %w", err)
		}
		return subcategories, nil
	}

	subcategories, err := s.cache.GetSubcategories(ctx)
	if err == nil && len(subcategories) > 0 {
		return subcategories, nil
	}

	subcategories, err = s.subcategoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}

	if err := s.cache.SetSubcategories(ctx, subcategories, s.cacheTTL); err != nil {
		logger.Warn().Err(err).Msg("failed to cache subcategories")
	}

	return subcategories, nil
}

// UpdateSubcategory заменяет подкатегорию целиком, включая привязку
// к категории и схему атрибутов
func (s *CatalogService) UpdateSubcategory(ctx context.Context, id uuid.UUID, req *entity.UpdateSubcategoryRequest) (*entity.Subcategory, error) {
	subcategory, err := s.subcategoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubcategoryNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	// Новая привязка должна указывать на существующую категорию
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	subcategory.Name = req.Name
	subcategory.CategoryID = req.CategoryID
	subcategory.Image = req.Image

	if err := s.subcategoryRepo.Update(ctx, subcategory); err != nil {
		return nil, fmt.Errorf("failed to update subcategory: %w", err)
	}

	attributes := buildAttributes(entity.OwnerSubcategory, id, req.Attributes)
	if err := s.attributeRepo.Replace(ctx, entity.OwnerSubcategory, id, attributes); err != nil {
		return nil, fmt.Errorf("failed to replace subcategory attributes: %w", err)
	}
	subcategory.Attributes = attributes

	s.invalidateSubcategories(ctx)
	recordAudit(ctx, s.auditRepo, "update", "subcategory", id.String())

	return subcategory, nil
}

// DeleteSubcategory удаляет подкатегорию и ее схему атрибутов.
// Подкатегория с товарами не удаляется.
func (s *CatalogService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	if err := s.subcategoryRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrSubcategoryNotFound):
			return ErrSubcategoryNotFound
		case errors.Is(err, repository.ErrSubcategoryHasProducts):
			return ErrSubcategoryHasProducts
		}
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}

	if err := s.attributeRepo.DeleteByOwner(ctx, entity.OwnerSubcategory, id); err != nil {
		logger.Warn().Err(err).Str("subcategory_id", id.String()).Msg("failed to delete subcategory attributes")
	}

	s.invalidateSubcategories(ctx)
	recordAudit(ctx, s.auditRepo, "delete", "subcategory", id.String())

	return nil
}

// === ATTRIBUTES ===

// ListAttributes возвращает схему атрибутов владельца в порядке добавления
func (s *CatalogService) ListAttributes(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) ([]entity.AttributeDefinition, error) {
	if err := s.verifyOwner(ctx, ownerKind, ownerID); err != nil {
		return nil, err
	}

	attributes, err := s.attributeRepo.List(ctx, ownerKind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}

	return attributes, nil
}

// ReplaceAttributes заменяет схему владельца целиком.
// Дубликаты имен внутри одной схемы допускаются, как и раньше.
func (s *CatalogService) ReplaceAttributes(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID, req *entity.ReplaceAttributesRequest) ([]entity.AttributeDefinition, error) {
	if err := s.verifyOwner(ctx, ownerKind, ownerID); err != nil {
		return nil, err
	}

	attributes := buildAttributes(ownerKind, ownerID, req.Attributes)
	if err := s.attributeRepo.Replace(ctx, ownerKind, ownerID, attributes); err != nil {
		return nil, fmt.Errorf("failed to replace attributes: %w", err)
	}

	recordAudit(ctx, s.auditRepo, "replace_attributes", string(ownerKind), ownerID.String())

	return attributes, nil
}

// AddAttribute добавляет одно определение к схеме владельца
func (s *CatalogService) AddAttribute(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID, req *entity.AttributeInput) (*entity.AttributeDefinition, error) {
	if err := s.verifyOwner(ctx, ownerKind, ownerID); err != nil {
		return nil, err
	}

	attribute := &entity.AttributeDefinition{
		ID:            uuid.New(),
		OwnerKind:     ownerKind,
		OwnerID:       ownerID,
		Name:          req.Name,
		IsDisplayable: req.IsDisplayable,
		CreatedAt:     time.Now(),
	}

	if err := s.attributeRepo.Add(ctx, attribute); err != nil {
		return nil, fmt.Errorf("failed to add attribute: %w", err)
	}

	recordAudit(ctx, s.auditRepo, "add_attribute", string(ownerKind), ownerID.String())

	return attribute, nil
}

// DeleteAttribute удаляет определение атрибута по ID
func (s *CatalogService) DeleteAttribute(ctx context.Context, id uuid.UUID) error {
	if err := s.attributeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAttributeNotFound) {
			return ErrAttributeNotFound
		}
		return fmt.Errorf("failed to delete attribute: %w", err)
	}

	recordAudit(ctx, s.auditRepo, "delete_attribute", "attribute", id.String())

	return nil
}

// === HELPERS ===

func (s *CatalogService) verifyOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) error {
	switch ownerKind {
	case entity.OwnerCategory:
		if _, err := s.categoryRepo.GetByID(ctx, ownerID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to verify category: %w", err)
		}
	case entity.OwnerSubcategory:
		if _, err := s.subcategoryRepo.GetByID(ctx, ownerID); err != nil {
			if errors.Is(err, repository.ErrSubcategoryNotFound) {
				return ErrSubcategoryNotFound
			}
			return fmt.Errorf("failed to verify subcategory: %w", err)
		}
	default:
		return fmt.Errorf("unknown owner kind: %s", ownerKind)
	}
	return nil
}

func (s *CatalogService) invalidateCategories(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}
}

func (s *CatalogService) invalidateSubcategories(ctx context.Context) {
	if err := s.cache.DeleteSubcategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate subcategories cache")
	}
}

// buildAttributes превращает входные определения в записи схемы владельца,
// сохраняя порядок из запроса
func buildAttributes(ownerKind entity.OwnerKind, ownerID uuid.UUID, inputs []entity.AttributeInput) []entity.AttributeDefinition {
	now := time.Now()
	attributes := make([]entity.AttributeDefinition, 0, len(inputs))
	for i, input := range inputs {
		attributes = append(attributes, entity.AttributeDefinition{
			ID:            uuid.New(),
			OwnerKind:     ownerKind,
			OwnerID:       ownerID,
			Name:          input.Name,
			IsDisplayable: input.IsDisplayable,
			// Смещение сохраняет порядок запроса при сортировке по created_at
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return attributes
}
