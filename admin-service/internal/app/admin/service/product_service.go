package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/admin-service/internal/app/admin/repository"
	"brocante/admin-service/internal/app/admin/util"
	"brocante/pkg/logger"

	"github.com/google/uuid"
)

// ProductService обрабатывает бизнес-логику товаров.
// Перед записью проверяет иерархию категория→подкатегория и, в строгом
// режиме, соответствие ключей extra_attributes схемам владельцев.
// Новые фотографии загружаются через asset storage до сохранения записи.
type ProductService struct {
	productRepo     repository.ProductRepository
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	attributeRepo   repository.AttributeRepository
	auditRepo       repository.AuditRepository
	assets          util.AssetStorage
	kafkaProducer   util.MessagePublisher

	// strictAttributes включает отклонение неизвестных ключей extra_attributes.
	// По умолчанию выключено: допускаются любые ключи.
	strictAttributes bool
}

// NewProductService создает новый сервис товаров с внедрением зависимостей
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	attributeRepo repository.AttributeRepository,
	auditRepo repository.AuditRepository,
	assets util.AssetStorage,
	kafkaProducer util.MessagePublisher,
	strictAttributes bool,
) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		subcategoryRepo:  subcategoryRepo,
		attributeRepo:    attributeRepo,
		auditRepo:        auditRepo,
		assets:           assets,
		kafkaProducer:    kafkaProducer,
		strictAttributes: strictAttributes,
	}
}

// CreateProduct создает новый товар.
// Категория и подкатегория должны существовать, и подкатегория должна
// принадлежать указанной категории.
func (s *ProductService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	condition := req.Condition
	if condition == "" {
		condition = entity.DefaultCondition
	}
	if !entity.IsValidCondition(condition) {
		return nil, ErrInvalidCondition
	}

	if err := s.validateHierarchy(ctx, req.CategoryID, req.SubcategoryID); err != nil {
		return nil, err
	}

	if err := s.validateAttributeValues(ctx, req.CategoryID, req.SubcategoryID, req.ExtraAttributes); err != nil {
		return nil, err
	}

	mainPhoto, err := s.resolveMainPhoto(ctx, req.MainPhoto)
	if err != nil {
		return nil, err
	}

	photos, err := s.mergePhotos(ctx, req.Photos)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:              uuid.New(),
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Stock:           *req.Stock,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		Condition:       condition,
		IsPromotion:     req.IsPromotion,
		IsTopProduct:    req.IsTopProduct,
		IsUsed:          req.IsUsed,
		MainPhoto:       mainPhoto,
		Photos:          photos,
		ExtraAttributes: req.ExtraAttributes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publishEvent(ctx, entity.EventProductCreated, product)
	recordAudit(ctx, s.auditRepo, "create", "product", product.ID.String())

	return product, nil
}

// GetProduct получает товар по ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetAllProducts получает товары с учетом фильтра.
// Фильтр по подкатегории имеет приоритет; фильтр по категории включает
// товары всех ее подкатегорий.
func (s *ProductService) GetAllProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	products, err := s.productRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// UpdateProduct заменяет запись товара целиком.
// Список фотографий сливается: переданные URL сохраняются в своем порядке,
// новые файлы загружаются в asset storage и добавляются в конец.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	condition := req.Condition
	if condition == "" {
		condition = entity.DefaultCondition
	}
	if !entity.IsValidCondition(condition) {
		return nil, ErrInvalidCondition
	}

	if err := s.validateHierarchy(ctx, req.CategoryID, req.SubcategoryID); err != nil {
		return nil, err
	}

	if err := s.validateAttributeValues(ctx, req.CategoryID, req.SubcategoryID, req.ExtraAttributes); err != nil {
		return nil, err
	}

	// При отсутствии main_photo в запросе сохраняется текущая фотография
	mainPhoto := product.MainPhoto
	if req.MainPhoto != nil {
		mainPhoto, err = s.resolveMainPhoto(ctx, req.MainPhoto)
		if err != nil {
			return nil, err
		}
	}

	photos, err := s.mergePhotos(ctx, req.Photos)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.OriginalPrice = req.OriginalPrice
	product.Stock = *req.Stock
	product.CategoryID = req.CategoryID
	product.SubcategoryID = req.SubcategoryID
	product.Condition = condition
	product.IsPromotion = req.IsPromotion
	product.IsTopProduct = req.IsTopProduct
	product.IsUsed = req.IsUsed
	product.MainPhoto = mainPhoto
	product.Photos = photos
	product.ExtraAttributes = req.ExtraAttributes
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.publishEvent(ctx, entity.EventProductUpdated, product)
	recordAudit(ctx, s.auditRepo, "update", "product", id.String())

	return product, nil
}

// DeleteProduct удаляет товар
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.publishEvent(ctx, entity.EventProductDeleted, product)
	recordAudit(ctx, s.auditRepo, "delete", "product", id.String())

	return nil
}

// === VALIDATION ===

// validateHierarchy проверяет, что категория и подкатегория существуют
// и подкатегория принадлежит именно этой категории
func (s *ProductService) validateHierarchy(ctx context.Context, categoryID, subcategoryID uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to verify category: %w", err)
	}

	subcategory, err := s.subcategoryRepo.GetByID(ctx, subcategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrSubcategoryNotFound) {
			return ErrSubcategoryNotFound
		}
		return fmt.Errorf("failed to verify subcategory: %w", err)
	}

	if subcategory.CategoryID != categoryID {
		return ErrHierarchyMismatch
	}

	return nil
}

// validateAttributeValues проверяет ключи extra_attributes против
// объединения схем категории и подкатегории. В обычном режиме проверка
// не выполняется: неизвестные и недостающие ключи допускаются.
func (s *ProductService) validateAttributeValues(ctx context.Context, categoryID, subcategoryID uuid.UUID, extra map[string]interface{}) error {
	if !s.strictAttributes || len(extra) == 0 {
		return nil
	}

	known := make(map[string]struct{})

	categoryAttrs, err := s.attributeRepo.List(ctx, entity.OwnerCategory, categoryID)
	if err != nil {
		return fmt.Errorf("failed to load category attributes: %w", err)
	}
	for _, attr := range categoryAttrs {
		known[attr.Name] = struct{}{}
	}

	subcategoryAttrs, err := s.attributeRepo.List(ctx, entity.OwnerSubcategory, subcategoryID)
	if err != nil {
		return fmt.Errorf("failed to load subcategory attributes: %w", err)
	}
	for _, attr := range subcategoryAttrs {
		known[attr.Name] = struct{}{}
	}

	for key := range extra {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAttribute, key)
		}
	}

	return nil
}

// === PHOTOS ===

// resolveMainPhoto возвращает URL главной фотографии:
// существующий URL как есть, новый файл через загрузку в asset storage
func (s *ProductService) resolveMainPhoto(ctx context.Context, photo *entity.PhotoInput) (string, error) {
	if photo == nil {
		return "", nil
	}
	if photo.IsExisting() {
		return photo.URL, nil
	}
	if len(photo.Data) == 0 {
		return "", ErrInvalidPhoto
	}

	url, err := s.assets.Upload(ctx, photo.Filename, photo.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return url, nil
}

// mergePhotos собирает итоговый список фотографий: сначала существующие
// URL в порядке запроса, затем URL новых файлов в порядке загрузки.
// Файлы загружаются последовательно, первая ошибка прерывает мутацию.
func (s *ProductService) mergePhotos(ctx context.Context, photos []entity.PhotoInput) (entity.StringList, error) {
	existing := make([]string, 0, len(photos))
	var pending []entity.PhotoInput

	for _, photo := range photos {
		if photo.IsExisting() {
			existing = append(existing, photo.URL)
			continue
		}
		if len(photo.Data) == 0 {
			return nil, ErrInvalidPhoto
		}
		pending = append(pending, photo)
	}

	merged := entity.StringList(existing)
	for _, photo := range pending {
		url, err := s.assets.Upload(ctx, photo.Filename, photo.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		merged = append(merged, url)
	}

	return merged, nil
}

// === EVENTS ===

// publishEvent отправляет событие каталога в Kafka.
// Key - это ProductID для партиционирования: события одного товара
// сохраняют порядок. Ошибки отправки не прерывают мутацию.
func (s *ProductService) publishEvent(ctx context.Context, eventType string, product *entity.Product) {
	event := entity.CatalogEvent{
		EventType:     eventType,
		ProductID:     product.ID,
		Name:          product.Name,
		Price:         product.Price,
		CategoryID:    product.CategoryID,
		SubcategoryID: product.SubcategoryID,
		Timestamp:     time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal catalog event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID.String(), eventData); err != nil {
		logger.Warn().Err(err).
			Str("event_type", eventType).
			Str("product_id", product.ID.String()).
			Msg("failed to publish catalog event")
	}
}
