package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrAttributeNotFound   = errors.New("attribute not found")

	// Политика удаления: сущность с зависимыми записями не удаляется
	ErrCategoryHasSubcategories = errors.New("category has subcategories")
	ErrCategoryHasProducts      = errors.New("category has products")
	ErrSubcategoryHasProducts   = errors.New("subcategory has products")

	// ErrHierarchyMismatch - подкатегория товара не принадлежит указанной категории
	ErrHierarchyMismatch = errors.New("subcategory does not belong to the specified category")

	// ErrUnknownAttribute - ключ extra_attributes вне схем категории и
	// подкатегории. Возвращается только в строгом режиме.
	ErrUnknownAttribute = errors.New("unknown extra attribute")

	ErrInvalidCondition = errors.New("invalid product condition")

	// ErrInvalidPhoto - фотография без URL и без содержимого файла
	ErrInvalidPhoto = errors.New("photo must contain either url or file data")

	// ErrUploadFailed - asset storage не принял изображение.
	// Одна попытка, мутация прерывается целиком.
	ErrUploadFailed = errors.New("image upload failed")
)
