package entity

import "github.com/google/uuid"

// AttributeInput - определение атрибута в запросах создания/обновления
type AttributeInput struct {
	Name          string `json:"name" validate:"required"`
	IsDisplayable bool   `json:"is_displayable"`
}

type CreateCategoryRequest struct {
	Name       string           `json:"name" validate:"required,max=100"`
	Image      string           `json:"image" validate:"omitempty,url"`
	Attributes []AttributeInput `json:"attributes" validate:"omitempty,dive"`
}

// UpdateCategoryRequest заменяет name/image/attributes целиком
type UpdateCategoryRequest struct {
	Name       string           `json:"name" validate:"required,max=100"`
	Image      string           `json:"image" validate:"omitempty,url"`
	Attributes []AttributeInput `json:"attributes" validate:"omitempty,dive"`
}

type CreateSubcategoryRequest struct {
	Name       string           `json:"name" validate:"required,max=100"`
	CategoryID uuid.UUID        `json:"category_id" validate:"required"`
	Image      string           `json:"image" validate:"omitempty,url"`
	Attributes []AttributeInput `json:"attributes" validate:"omitempty,dive"`
}

type UpdateSubcategoryRequest struct {
	Name       string           `json:"name" validate:"required,max=100"`
	CategoryID uuid.UUID        `json:"category_id" validate:"required"`
	Image      string           `json:"image" validate:"omitempty,url"`
	Attributes []AttributeInput `json:"attributes" validate:"omitempty,dive"`
}

// ReplaceAttributesRequest полностью заменяет схему атрибутов владельца
type ReplaceAttributesRequest struct {
	Attributes []AttributeInput `json:"attributes" validate:"dive"`
}

// PhotoInput - одна фотография в запросе: либо существующий URL,
// либо бинарное содержимое нового файла (base64 в JSON).
// URL имеет приоритет, если заполнены оба поля.
type PhotoInput struct {
	URL      string `json:"url,omitempty"`
	Data     []byte `json:"data,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// IsExisting сообщает, что фотография уже загружена и передана как URL
func (p PhotoInput) IsExisting() bool {
	return p.URL != ""
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	// original_price обязателен только при is_promotion=true
	OriginalPrice   float64                `json:"original_price" validate:"required_if=IsPromotion true,omitempty,gt=0"`
	Stock           *int                   `json:"stock" validate:"required,gte=0"`
	CategoryID      uuid.UUID              `json:"category_id" validate:"required"`
	SubcategoryID   uuid.UUID              `json:"subcategory_id" validate:"required"`
	Condition       string                 `json:"condition"`
	IsPromotion     bool                   `json:"is_promotion"`
	IsTopProduct    bool                   `json:"is_top_product"`
	IsUsed          bool                   `json:"is_used"`
	MainPhoto       *PhotoInput            `json:"main_photo"`
	Photos          []PhotoInput           `json:"photos"`
	ExtraAttributes map[string]interface{} `json:"extra_attributes"`
}

// UpdateProductRequest заменяет запись товара целиком.
// Список фотографий при этом сливается: URL существующих сохраняются,
// новые файлы загружаются в asset storage и добавляются в конец.
type UpdateProductRequest struct {
	Name            string                 `json:"name" validate:"required,max=200"`
	Description     string                 `json:"description" validate:"required"`
	Price           float64                `json:"price" validate:"required,gt=0"`
	OriginalPrice   float64                `json:"original_price" validate:"required_if=IsPromotion true,omitempty,gt=0"`
	Stock           *int                   `json:"stock" validate:"required,gte=0"`
	CategoryID      uuid.UUID              `json:"category_id" validate:"required"`
	SubcategoryID   uuid.UUID              `json:"subcategory_id" validate:"required"`
	Condition       string                 `json:"condition"`
	IsPromotion     bool                   `json:"is_promotion"`
	IsTopProduct    bool                   `json:"is_top_product"`
	IsUsed          bool                   `json:"is_used"`
	MainPhoto       *PhotoInput            `json:"main_photo"`
	Photos          []PhotoInput           `json:"photos"`
	ExtraAttributes map[string]interface{} `json:"extra_attributes"`
}

// ProductFilter - фильтр списка товаров.
// Фильтр по подкатегории имеет приоритет над фильтром по категории.
type ProductFilter struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

type SubcategoryListResponse struct {
	Subcategories []Subcategory `json:"subcategories"`
	Total         int           `json:"total"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type AttributeListResponse struct {
	Attributes []AttributeDefinition `json:"attributes"`
	Total      int                   `json:"total"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
