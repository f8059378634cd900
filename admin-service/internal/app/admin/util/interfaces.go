package util

import (
	"context"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
)

// ListCache интерфейс кеша списков каталога
// Используется для dependency injection и упрощения тестирования
type ListCache interface {
	SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategories(ctx context.Context) error
	SetSubcategories(ctx context.Context, subcategories []entity.Subcategory, ttl time.Duration) error
	GetSubcategories(ctx context.Context) ([]entity.Subcategory, error)
	DeleteSubcategories(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс отправки событий каталога в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// AssetStorage интерфейс внешнего хранилища изображений.
// Принимает бинарное содержимое одного файла и возвращает постоянный URL.
type AssetStorage interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}
