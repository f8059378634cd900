//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"brocante/admin-service/internal/app/admin/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// BaseURL - адрес запущенного admin-service (docker-compose)
	BaseURL = "http://localhost:8084/api/v1/admin"
)

func adminToken(t *testing.T) string {
	t.Helper()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key-change-this-in-production"
	}

	claims := jwt.MapClaims{
		"user_id":   "e2e-admin",
		"email":     "e2e@example.com",
		"role_name": "admin",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func intPtr(v int) *int { return &v }

// TestFullAdminFlow тестирует полный цикл работы админки:
// 1. Создание категории со схемой атрибутов
// 2. Создание подкатегории
// 3. Создание товара с extra_attributes
// 4. Фильтрация товаров по подкатегории
// 5. Удаление в обратном порядке
func TestFullAdminFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}
	token := adminToken(t)

	// ==================== Step 1: Create Category ====================
	t.Log("Step 1: Creating category")

	categoryName := fmt.Sprintf("Shoes %d", time.Now().UnixNano())
	resp := doJSON(t, client, http.MethodPost, BaseURL+"/categories", token, entity.CreateCategoryRequest{
		Name:       categoryName,
		Attributes: []entity.AttributeInput{{Name: "size", IsDisplayable: true}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var category entity.Category
	decode(t, resp, &category)
	require.Len(t, category.Attributes, 1)

	// ==================== Step 2: Create Subcategory ====================
	t.Log("Step 2: Creating subcategory")

	resp = doJSON(t, client, http.MethodPost, BaseURL+"/subcategories", token, entity.CreateSubcategoryRequest{
		Name:       "Sneakers",
		CategoryID: category.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var subcategory entity.Subcategory
	decode(t, resp, &subcategory)

	// ==================== Step 3: Create Product ====================
	t.Log("Step 3: Creating product")

	resp = doJSON(t, client, http.MethodPost, BaseURL+"/products", token, entity.CreateProductRequest{
		Name:            "Air Max 90",
		Description:     "Classic sneakers in great shape",
		Price:           79.90,
		Stock:           intPtr(2),
		CategoryID:      category.ID,
		SubcategoryID:   subcategory.ID,
		Condition:       "D'occasion - Comme neuf",
		ExtraAttributes: map[string]interface{}{"size": "42"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product entity.Product
	decode(t, resp, &product)
	assert.Equal(t, "42", product.ExtraAttributes["size"])

	// ==================== Step 4: Filter products ====================
	t.Log("Step 4: Filtering products by subcategory")

	resp = doJSON(t, client, http.MethodGet, BaseURL+"/products?subcategory_id="+subcategory.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list entity.ProductListResponse
	decode(t, resp, &list)
	require.GreaterOrEqual(t, list.Total, 1)

	// Удаление категории с зависимыми записями отклоняется
	resp = doJSON(t, client, http.MethodDelete, BaseURL+"/categories/"+category.ID.String(), token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// ==================== Step 5: Cleanup ====================
	t.Log("Step 5: Deleting product, subcategory and category")

	resp = doJSON(t, client, http.MethodDelete, BaseURL+"/products/"+product.ID.String(), token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, client, http.MethodDelete, BaseURL+"/subcategories/"+subcategory.ID.String(), token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, client, http.MethodDelete, BaseURL+"/categories/"+category.ID.String(), token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// Менеджеру запрещено удаление
func TestManagerCannotDelete(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key-change-this-in-production"
	}
	claims := jwt.MapClaims{
		"user_id":   "e2e-manager",
		"email":     "manager@example.com",
		"role_name": "manager",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	resp := doJSON(t, client, http.MethodDelete, BaseURL+"/categories/00000000-0000-0000-0000-000000000000", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
