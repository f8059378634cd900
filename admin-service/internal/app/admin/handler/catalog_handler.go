package handler

import (
	"net/http"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CatalogHandler обслуживает категории, подкатегории и схемы атрибутов
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalogService.GetAllCategories(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	var req entity.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category ID"})
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Category deleted successfully"})
}

func (h *CatalogHandler) CreateSubcategory(c *gin.Context) {
	var req entity.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	subcategory, err := h.catalogService.CreateSubcategory(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subcategory)
}

func (h *CatalogHandler) GetSubcategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid subcategory ID"})
		return
	}

	subcategory, err := h.catalogService.GetSubcategory(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

// GetAllSubcategories отдаёт все подкатегории, опционально
// отфильтрованные по ?category_id=
func (h *CatalogHandler) GetAllSubcategories(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid category_id filter"})
			return
		}
		categoryID = &id
	}

	subcategories, err := h.catalogService.GetAllSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SubcategoryListResponse{
		Subcategories: subcategories,
		Total:         len(subcategories),
	})
}

func (h *CatalogHandler) UpdateSubcategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid subcategory ID"})
		return
	}

	var req entity.UpdateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	subcategory, err := h.catalogService.UpdateSubcategory(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subcategory)
}

func (h *CatalogHandler) DeleteSubcategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid subcategory ID"})
		return
	}

	if err := h.catalogService.DeleteSubcategory(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Subcategory deleted successfully"})
}

func (h *CatalogHandler) ListCategoryAttributes(c *gin.Context) {
	h.listAttributes(c, entity.OwnerCategory)
}

func (h *CatalogHandler) ListSubcategoryAttributes(c *gin.Context) {
	h.listAttributes(c, entity.OwnerSubcategory)
}

func (h *CatalogHandler) listAttributes(c *gin.Context, ownerKind entity.OwnerKind) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid owner ID"})
		return
	}

	attributes, err := h.catalogService.ListAttributes(c.Request.Context(), ownerKind, ownerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.AttributeListResponse{
		Attributes: attributes,
		Total:      len(attributes),
	})
}

func (h *CatalogHandler) ReplaceCategoryAttributes(c *gin.Context) {
	h.replaceAttributes(c, entity.OwnerCategory)
}

func (h *CatalogHandler) ReplaceSubcategoryAttributes(c *gin.Context) {
	h.replaceAttributes(c, entity.OwnerSubcategory)
}

func (h *CatalogHandler) replaceAttributes(c *gin.Context, ownerKind entity.OwnerKind) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid owner ID"})
		return
	}

	var req entity.ReplaceAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	attributes, err := h.catalogService.ReplaceAttributes(c.Request.Context(), ownerKind, ownerID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.AttributeListResponse{
		Attributes: attributes,
		Total:      len(attributes),
	})
}

func (h *CatalogHandler) AddCategoryAttribute(c *gin.Context) {
	h.addAttribute(c, entity.OwnerCategory)
}

func (h *CatalogHandler) AddSubcategoryAttribute(c *gin.Context) {
	h.addAttribute(c, entity.OwnerSubcategory)
}

func (h *CatalogHandler) addAttribute(c *gin.Context, ownerKind entity.OwnerKind) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid owner ID"})
		return
	}

	var req entity.AttributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Validation failed", Message: err.Error()})
		return
	}

	attribute, err := h.catalogService.AddAttribute(c.Request.Context(), ownerKind, ownerID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attribute)
}

func (h *CatalogHandler) DeleteAttribute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid attribute ID"})
		return
	}

	if err := h.catalogService.DeleteAttribute(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Attribute deleted successfully"})
}
