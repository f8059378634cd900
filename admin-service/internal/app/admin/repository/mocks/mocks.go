package mocks

import (
	"context"
	"time"

	"brocante/admin-service/internal/app/admin/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository mock для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSubcategoryRepository mock для SubcategoryRepository
type MockSubcategoryRepository struct {
	mock.Mock
}

func (m *MockSubcategoryRepository) Create(ctx context.Context, subcategory *entity.Subcategory) error {
	args := m.Called(ctx, subcategory)
	return args.Error(0)
}

func (m *MockSubcategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Subcategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) GetAll(ctx context.Context) ([]entity.Subcategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) GetByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]entity.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subcategory), args.Error(1)
}

func (m *MockSubcategoryRepository) Update(ctx context.Context, subcategory *entity.Subcategory) error {
	args := m.Called(ctx, subcategory)
	return args.Error(0)
}

func (m *MockSubcategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAttributeRepository mock для AttributeRepository
type MockAttributeRepository struct {
	mock.Mock
}

func (m *MockAttributeRepository) List(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) ([]entity.AttributeDefinition, error) {
	args := m.Called(ctx, ownerKind, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AttributeDefinition), args.Error(1)
}

func (m *MockAttributeRepository) Replace(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID, attributes []entity.AttributeDefinition) error {
	args := m.Called(ctx, ownerKind, ownerID, attributes)
	return args.Error(0)
}

func (m *MockAttributeRepository) Add(ctx context.Context, attribute *entity.AttributeDefinition) error {
	args := m.Called(ctx, attribute)
	return args.Error(0)
}

func (m *MockAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttributeRepository) DeleteByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerKind, ownerID)
	return args.Error(0)
}

// MockProductRepository mock для ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditRepository mock для AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *entity.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListRecent(ctx context.Context, limit int64) ([]entity.AuditEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AuditEntry), args.Error(1)
}

// MockListCache mock для util.ListCache
type MockListCache struct {
	mock.Mock
}

func (m *MockListCache) SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	args := m.Called(ctx, categories, ttl)
	return args.Error(0)
}

func (m *MockListCache) GetCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockListCache) DeleteCategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockListCache) SetSubcategories(ctx context.Context, subcategories []entity.Subcategory, ttl time.Duration) error {
	args := m.Called(ctx, subcategories, ttl)
	return args.Error(0)
}

func (m *MockListCache) GetSubcategories(ctx context.Context) ([]entity.Subcategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subcategory), args.Error(1)
}

func (m *MockListCache) DeleteSubcategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockListCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMessagePublisher mock для util.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAssetStorage mock для util.AssetStorage
type MockAssetStorage struct {
	mock.Mock
}

func (m *MockAssetStorage) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}
