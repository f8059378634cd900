package handler

import (
	"errors"
	"net/http"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/service"

	"github.com/gin-gonic/gin"
)

// writeServiceError транслирует ошибки доменного слоя в HTTP статусы.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSubcategoryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrAttributeNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrCategoryHasSubcategories),
		errors.Is(err, service.ErrCategoryHasProducts),
		errors.Is(err, service.ErrSubcategoryHasProducts):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrHierarchyMismatch):
		c.JSON(http.StatusUnprocessableEntity, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUnknownAttribute),
		errors.Is(err, service.ErrInvalidCondition),
		errors.Is(err, service.ErrInvalidPhoto):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUploadFailed):
		c.JSON(http.StatusBadGateway, entity.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "internal server error"})
	}
}
