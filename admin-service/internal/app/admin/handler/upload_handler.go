package handler

import (
	"io"
	"net/http"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/util"

	"github.com/gin-gonic/gin"
)

// Лимит размера загружаемого файла, совпадает с лимитом asset storage
const maxUploadSize = 10 << 20 // 10 MB

// UploadHandler принимает файл от админки и проксирует его в asset storage
type UploadHandler struct {
	assets util.AssetStorage
}

func NewUploadHandler(assets util.AssetStorage) *UploadHandler {
	return &UploadHandler{
		assets: assets,
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Image file is required", Message: err.Error()})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{Error: "File too large"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to read file"})
		return
	}

	url, err := h.assets.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadGateway, entity.ErrorResponse{Error: "Upload failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entity.UploadResponse{URL: url})
}
