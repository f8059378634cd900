package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) GetAllProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validProductBody() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Air Max 90",
		"description":    "Classic running shoes",
		"price":          79.90,
		"stock":          3,
		"category_id":    uuid.NewString(),
		"subcategory_id": uuid.NewString(),
	}
}

func TestProductHandler_CreateProduct_Success(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	created := &entity.Product{ID: uuid.New(), Name: "Air Max 90", Condition: entity.DefaultCondition}
	mockService.On("CreateProduct", mock.Anything, mock.AnythingOfType("*entity.CreateProductRequest")).Return(created, nil)

	h := NewProductHandler(mockService)
	router.POST("/products", h.CreateProduct)

	body, _ := json.Marshal(validProductBody())
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestProductHandler_CreateProduct_PromotionRequiresOriginalPrice(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	h := NewProductHandler(mockService)
	router.POST("/products", h.CreateProduct)

	body := validProductBody()
	body["is_promotion"] = true // original_price не передан
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestProductHandler_CreateProduct_ZeroStockAllowed(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	created := &entity.Product{ID: uuid.New(), Name: "Air Max 90"}
	mockService.On("CreateProduct", mock.Anything, mock.AnythingOfType("*entity.CreateProductRequest")).Return(created, nil)

	h := NewProductHandler(mockService)
	router.POST("/products", h.CreateProduct)

	body := validProductBody()
	body["stock"] = 0
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestProductHandler_CreateProduct_NegativePriceRejected(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	h := NewProductHandler(mockService)
	router.POST("/products", h.CreateProduct)

	body := validProductBody()
	body["price"] = -5
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestProductHandler_CreateProduct_HierarchyMismatch(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	mockService.On("CreateProduct", mock.Anything, mock.AnythingOfType("*entity.CreateProductRequest")).
		Return(nil, service.ErrHierarchyMismatch)

	h := NewProductHandler(mockService)
	router.POST("/products", h.CreateProduct)

	body, _ := json.Marshal(validProductBody())
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProductHandler_GetAllProducts_SubcategoryFilterWins(t *testing.T) {
	router := setupTestRouter()

	categoryID := uuid.New()
	subcategoryID := uuid.New()

	mockService := new(MockProductService)
	mockService.On("GetAllProducts", mock.Anything, mock.MatchedBy(func(f entity.ProductFilter) bool {
		return f.SubcategoryID != nil && *f.SubcategoryID == subcategoryID &&
			f.CategoryID != nil && *f.CategoryID == categoryID
	})).Return([]entity.Product{{ID: uuid.New(), Name: "Air Max 90"}}, nil)

	h := NewProductHandler(mockService)
	router.GET("/products", h.GetAllProducts)

	url := "/products?category_id=" + categoryID.String() + "&subcategory_id=" + subcategoryID.String()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got entity.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Total)
	mockService.AssertExpectations(t)
}

func TestProductHandler_GetAllProducts_InvalidFilter(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	h := NewProductHandler(mockService)
	router.GET("/products", h.GetAllProducts)

	req := httptest.NewRequest(http.MethodGet, "/products?subcategory_id=abc", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetAllProducts", mock.Anything, mock.Anything)
}

func TestProductHandler_UpdateProduct_NotFound(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	mockService.On("UpdateProduct", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("*entity.UpdateProductRequest")).
		Return(nil, service.ErrProductNotFound)

	h := NewProductHandler(mockService)
	router.PUT("/products/:id", h.UpdateProduct)

	body, _ := json.Marshal(validProductBody())
	req := httptest.NewRequest(http.MethodPut, "/products/"+uuid.NewString(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_DeleteProduct_Success(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockProductService)
	mockService.On("DeleteProduct", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil)

	h := NewProductHandler(mockService)
	router.DELETE("/products/:id", h.DeleteProduct)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
