package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/repository"
	"brocante/admin-service/internal/app/admin/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCacheTTL = time.Hour

// Хелперы для создания тестовых данных

func newTestCategory() *entity.Category {
	return &entity.Category{
		ID:        uuid.New(),
		Name:      "Shoes",
		CreatedAt: time.Now(),
	}
}

func newTestSubcategory(categoryID uuid.UUID) *entity.Subcategory {
	return &entity.Subcategory{
		ID:         uuid.New(),
		Name:       "Sneakers",
		CategoryID: categoryID,
		CreatedAt:  time.Now(),
	}
}

func newCatalogServiceWithMocks() (*CatalogService, *mocks.MockCategoryRepository, *mocks.MockSubcategoryRepository, *mocks.MockAttributeRepository, *mocks.MockAuditRepository, *mocks.MockListCache) {
	categoryRepo := new(mocks.MockCategoryRepository)
	subcategoryRepo := new(mocks.MockSubcategoryRepository)
	attributeRepo := new(mocks.MockAttributeRepository)
	auditRepo := new(mocks.MockAuditRepository)
	cache := new(mocks.MockListCache)

	svc := NewCatalogService(categoryRepo, subcategoryRepo, attributeRepo, auditRepo, cache, testCacheTTL)
	return svc, categoryRepo, subcategoryRepo, attributeRepo, auditRepo, cache
}

// ==================== Category Tests ====================

func TestCatalogService_CreateCategory_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, cache := newCatalogServiceWithMocks()

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	attributeRepo.On("Replace", ctx, entity.OwnerCategory, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil)
	cache.On("DeleteCategories", ctx).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	req := &entity.CreateCategoryRequest{
		Name: "Shoes",
		Attributes: []entity.AttributeInput{
			{Name: "size", IsDisplayable: true},
			{Name: "color"},
		},
	}

	// Act
	category, err := svc.CreateCategory(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, category)
	assert.Equal(t, "Shoes", category.Name)
	assert.NotEqual(t, uuid.Nil, category.ID)
	require.Len(t, category.Attributes, 2)
	assert.Equal(t, "size", category.Attributes[0].Name)
	assert.True(t, category.Attributes[0].IsDisplayable)
	assert.Equal(t, "color", category.Attributes[1].Name)
	assert.Equal(t, entity.OwnerCategory, category.Attributes[0].OwnerKind)
	assert.Equal(t, category.ID, category.Attributes[0].OwnerID)

	categoryRepo.AssertExpectations(t)
	attributeRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_PreservesAttributeOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, cache := newCatalogServiceWithMocks()

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	attributeRepo.On("Replace", ctx, entity.OwnerCategory, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil)
	cache.On("DeleteCategories", ctx).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	names := []string{"brand", "size", "color", "material", "season"}
	inputs := make([]entity.AttributeInput, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, entity.AttributeInput{Name: name})
	}

	// Act
	category, err := svc.CreateCategory(ctx, &entity.CreateCategoryRequest{Name: "Shoes", Attributes: inputs})

	// Assert
	require.NoError(t, err)
	require.Len(t, category.Attributes, len(names))
	for i, name := range names {
		assert.Equal(t, name, category.Attributes[i].Name)
	}
	// Смещение created_at сохраняет порядок запроса при сортировке в БД
	for i := 1; i < len(category.Attributes); i++ {
		assert.True(t, category.Attributes[i].CreatedAt.After(category.Attributes[i-1].CreatedAt))
	}
}

func TestCatalogService_GetCategory_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, _, _, _ := newCatalogServiceWithMocks()

	id := uuid.New()
	categoryRepo.On("GetByID", ctx, id).Return(nil, repository.ErrCategoryNotFound)

	// Act
	category, err := svc.GetCategory(ctx, id)

	// Assert
	assert.Nil(t, category)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	categoryRepo.AssertExpectations(t)
}

func TestCatalogService_GetAllCategories_CacheHit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, _, _, cache := newCatalogServiceWithMocks()

	cached := []entity.Category{*newTestCategory(), *newTestCategory()}
	cache.On("GetCategories", ctx).Return(cached, nil)

	// Act
	categories, err := svc.GetAllCategories(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cached, categories)
	categoryRepo.AssertNotCalled(t, "GetAll", mock.Anything)
	cache.AssertExpectations(t)
}

func TestCatalogService_GetAllCategories_CacheMiss(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, _, _, cache := newCatalogServiceWithMocks()

	fromDB := []entity.Category{*newTestCategory()}
	cache.On("GetCategories", ctx).Return(nil, errors.New("cache miss"))
	categoryRepo.On("GetAll", ctx).Return(fromDB, nil)
	cache.On("SetCategories", ctx, fromDB, testCacheTTL).Return(nil)

	// Act
	categories, err := svc.GetAllCategories(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fromDB, categories)
	categoryRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_UpdateCategory_ReplacesSchema(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, cache := newCatalogServiceWithMocks()

	existing := newTestCategory()
	categoryRepo.On("GetByID", ctx, existing.ID).Return(existing, nil)
	categoryRepo.On("Update", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	attributeRepo.On("Replace", ctx, entity.OwnerCategory, existing.ID, mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil)
	cache.On("DeleteCategories", ctx).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	req := &entity.UpdateCategoryRequest{
		Name:       "Footwear",
		Attributes: []entity.AttributeInput{{Name: "size"}},
	}

	// Act
	category, err := svc.UpdateCategory(ctx, existing.ID, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Footwear", category.Name)
	require.Len(t, category.Attributes, 1)
	assert.Equal(t, "size", category.Attributes[0].Name)
	attributeRepo.AssertExpectations(t)
}

func TestCatalogService_UpdateCategory_Idempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, cache := newCatalogServiceWithMocks()

	stored := newTestCategory()
	first := *stored
	second := *stored
	categoryRepo.On("GetByID", ctx, stored.ID).Return(&first, nil).Once()
	categoryRepo.On("GetByID", ctx, stored.ID).Return(&second, nil).Once()
	categoryRepo.On("Update", ctx, mock.AnythingOfType("*entity.Category")).Return(nil).Twice()
	attributeRepo.On("Replace", ctx, entity.OwnerCategory, stored.ID, mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil).Twice()
	cache.On("DeleteCategories", ctx).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	req := &entity.UpdateCategoryRequest{
		Name:  "Footwear",
		Image: "https://cdn.example.com/footwear.jpg",
		Attributes: []entity.AttributeInput{
			{Name: "size", IsDisplayable: true},
			{Name: "color"},
		},
	}

	// Act
	once, err := svc.UpdateCategory(ctx, stored.ID, req)
	require.NoError(t, err)
	twice, err := svc.UpdateCategory(ctx, stored.ID, req)
	require.NoError(t, err)

	// Assert: повторное применение того же запроса не меняет наблюдаемое состояние
	assert.Equal(t, once.Name, twice.Name)
	assert.Equal(t, once.Image, twice.Image)
	require.Len(t, twice.Attributes, len(once.Attributes))
	for i := range once.Attributes {
		assert.Equal(t, once.Attributes[i].Name, twice.Attributes[i].Name)
		assert.Equal(t, once.Attributes[i].IsDisplayable, twice.Attributes[i].IsDisplayable)
	}
	categoryRepo.AssertExpectations(t)
	attributeRepo.AssertExpectations(t)
}

func TestCatalogService_DeleteCategory_WithSubcategories(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, _, cache := newCatalogServiceWithMocks()

	id := uuid.New()
	categoryRepo.On("Delete", ctx, id).Return(repository.ErrCategoryHasSubcategories)

	// Act
	err := svc.DeleteCategory(ctx, id)

	// Assert
	assert.ErrorIs(t, err, ErrCategoryHasSubcategories)
	attributeRepo.AssertNotCalled(t, "DeleteByOwner", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "DeleteCategories", mock.Anything)
}

func TestCatalogService_DeleteCategory_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, cache := newCatalogServiceWithMocks()

	id := uuid.New()
	categoryRepo.On("Delete", ctx, id).Return(nil)
	attributeRepo.On("DeleteByOwner", ctx, entity.OwnerCategory, id).Return(nil)
	cache.On("DeleteCategories", ctx).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	// Act
	err := svc.DeleteCategory(ctx, id)

	// Assert
	require.NoError(t, err)
	categoryRepo.AssertExpectations(t)
	attributeRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

// ==================== Subcategory Tests ====================

func TestCatalogService_CreateSubcategory_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, subcategoryRepo, attributeRepo, auditRepo, cache := newCatalogServiceWithMocks()

	category := newTestCategory()
	categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	subcategoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Subcategory")).Return(nil)
	attributeRepo.On("Replace", ctx, entity.OwnerSubcategory, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil)
	cache.On("DeleteSubcategories", ctx).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	req := &entity.CreateSubcategoryRequest{
		Name:       "Sneakers",
		CategoryID: category.ID,
		Attributes: []entity.AttributeInput{{Name: "sole", IsDisplayable: true}},
	}

	// Act
	subcategory, err := svc.CreateSubcategory(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Sneakers", subcategory.Name)
	assert.Equal(t, category.ID, subcategory.CategoryID)
	require.Len(t, subcategory.Attributes, 1)
	assert.Equal(t, entity.OwnerSubcategory, subcategory.Attributes[0].OwnerKind)
	subcategoryRepo.AssertExpectations(t)
}

func TestCatalogService_CreateSubcategory_CategoryNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, subcategoryRepo, _, _, _ := newCatalogServiceWithMocks()

	categoryID := uuid.New()
	categoryRepo.On("GetByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	// Act
	subcategory, err := svc.CreateSubcategory(ctx, &entity.CreateSubcategoryRequest{
		Name:       "Sneakers",
		CategoryID: categoryID,
	})

	// Assert
	assert.Nil(t, subcategory)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	subcategoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_GetAllSubcategories_FilterBypassesCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _, subcategoryRepo, _, _, cache := newCatalogServiceWithMocks()

	categoryID := uuid.New()
	filtered := []entity.Subcategory{*newTestSubcategory(categoryID)}
	subcategoryRepo.On("GetByCategoryID", ctx, categoryID).Return(filtered, nil)

	// Act
	subcategories, err := svc.GetAllSubcategories(ctx, &categoryID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, filtered, subcategories)
	cache.AssertNotCalled(t, "GetSubcategories", mock.Anything)
}

func TestCatalogService_DeleteSubcategory_WithProducts(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _, subcategoryRepo, _, _, _ := newCatalogServiceWithMocks()

	id := uuid.New()
	subcategoryRepo.On("Delete", ctx, id).Return(repository.ErrSubcategoryHasProducts)

	// Act
	err := svc.DeleteSubcategory(ctx, id)

	// Assert
	assert.ErrorIs(t, err, ErrSubcategoryHasProducts)
}

// ==================== Attribute Tests ====================

func TestCatalogService_ReplaceAttributes_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, _ := newCatalogServiceWithMocks()

	category := newTestCategory()
	categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	attributeRepo.On("Replace", ctx, entity.OwnerCategory, category.ID, mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	req := &entity.ReplaceAttributesRequest{
		Attributes: []entity.AttributeInput{{Name: "size"}, {Name: "color"}},
	}

	// Act
	attributes, err := svc.ReplaceAttributes(ctx, entity.OwnerCategory, category.ID, req)

	// Assert
	require.NoError(t, err)
	require.Len(t, attributes, 2)
	assert.Equal(t, "size", attributes[0].Name)
	assert.Equal(t, "color", attributes[1].Name)
	attributeRepo.AssertExpectations(t)
}

func TestCatalogService_ReplaceAttributes_EmptySchemaAllowed(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, _ := newCatalogServiceWithMocks()

	category := newTestCategory()
	categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	attributeRepo.On("Replace", ctx, entity.OwnerCategory, category.ID, mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	// Act
	attributes, err := svc.ReplaceAttributes(ctx, entity.OwnerCategory, category.ID, &entity.ReplaceAttributesRequest{})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, attributes)
}

func TestCatalogService_ReplaceAttributes_OwnerNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _, subcategoryRepo, attributeRepo, _, _ := newCatalogServiceWithMocks()

	ownerID := uuid.New()
	subcategoryRepo.On("GetByID", ctx, ownerID).Return(nil, repository.ErrSubcategoryNotFound)

	// Act
	attributes, err := svc.ReplaceAttributes(ctx, entity.OwnerSubcategory, ownerID, &entity.ReplaceAttributesRequest{})

	// Assert
	assert.Nil(t, attributes)
	assert.ErrorIs(t, err, ErrSubcategoryNotFound)
	attributeRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_AddAttribute_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _, subcategoryRepo, attributeRepo, auditRepo, _ := newCatalogServiceWithMocks()

	subcategory := newTestSubcategory(uuid.New())
	subcategoryRepo.On("GetByID", ctx, subcategory.ID).Return(subcategory, nil)
	attributeRepo.On("Add", ctx, mock.AnythingOfType("*entity.AttributeDefinition")).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	// Act
	attribute, err := svc.AddAttribute(ctx, entity.OwnerSubcategory, subcategory.ID, &entity.AttributeInput{Name: "sole"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sole", attribute.Name)
	assert.Equal(t, entity.OwnerSubcategory, attribute.OwnerKind)
	assert.Equal(t, subcategory.ID, attribute.OwnerID)
}

func TestCatalogService_DeleteAttribute_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _, _, attributeRepo, _, _ := newCatalogServiceWithMocks()

	id := uuid.New()
	attributeRepo.On("Delete", ctx, id).Return(repository.ErrAttributeNotFound)

	// Act
	err := svc.DeleteAttribute(ctx, id)

	// Assert
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

// Схемы категории и подкатегории независимы: замена одной не трогает другую

func TestCatalogService_ReplaceAttributes_SchemasIndependent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, categoryRepo, _, attributeRepo, auditRepo, _ := newCatalogServiceWithMocks()

	category := newTestCategory()
	categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	attributeRepo.On("Replace", ctx, entity.OwnerCategory, category.ID, mock.AnythingOfType("[]entity.AttributeDefinition")).Return(nil)
	auditRepo.On("Record", ctx, mock.AnythingOfType("*entity.AuditEntry")).Return(nil)

	// Act
	_, err := svc.ReplaceAttributes(ctx, entity.OwnerCategory, category.ID, &entity.ReplaceAttributesRequest{
		Attributes: []entity.AttributeInput{{Name: "size"}},
	})

	// Assert
	require.NoError(t, err)
	// Замена схемы категории не выполняет операций над схемами подкатегорий
	for _, call := range attributeRepo.Calls {
		if call.Method == "Replace" {
			assert.Equal(t, entity.OwnerCategory, call.Arguments.Get(1))
		}
	}
}
