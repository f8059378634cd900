package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerKind определяет владельца схемы атрибутов: категорию или подкатегорию
type OwnerKind string

const (
	OwnerCategory    OwnerKind = "category"
	OwnerSubcategory OwnerKind = "subcategory"
)

// AttributeMap - JSONB колонка для extra_attributes товара
type AttributeMap map[string]interface{}

func (m AttributeMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(AttributeMap{})
	}
	return json.Marshal(m)
}

func (m *AttributeMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(AttributeMap)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan AttributeMap: value is not []byte")
	}
	return json.Unmarshal(bytes, m)
}

// StringList - JSONB колонка для упорядоченного списка URL фотографий
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(StringList{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = make(StringList, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan StringList: value is not []byte")
	}
	return json.Unmarshal(bytes, l)
}

// Category представляет категорию верхнего уровня каталога
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`

	// Схема атрибутов хранится отдельно и подгружается сервисом
	Attributes []AttributeDefinition `json:"attributes" gorm:"-"`
}

// Subcategory представляет подкатегорию, вложенную ровно в одну категорию
type Subcategory struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`
	Image      string    `json:"image"`
	CreatedAt  time.Time `json:"created_at"`

	Attributes []AttributeDefinition `json:"attributes" gorm:"-"`
}

// AttributeDefinition - именованное пользовательское поле, объявленное
// на категории или подкатегории. Схемы родителя и потомка независимы
// и никогда не объединяются при хранении.
type AttributeDefinition struct {
	ID            uuid.UUID `json:"id" db:"id"`
	OwnerKind     OwnerKind `json:"owner_kind" db:"owner_kind"`
	OwnerID       uuid.UUID `json:"owner_id" db:"owner_id"`
	Name          string    `json:"name" db:"name"`
	IsDisplayable bool      `json:"is_displayable" db:"is_displayable"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Product представляет товар каталога, привязанный к паре категория+подкатегория
type Product struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price"` // Имеет смысл только при is_promotion
	Stock         int       `json:"stock"`
	CategoryID    uuid.UUID `json:"category_id" gorm:"type:uuid;not null;index"`
	SubcategoryID uuid.UUID `json:"subcategory_id" gorm:"type:uuid;not null;index"`
	Condition     string    `json:"condition"`
	IsPromotion   bool      `json:"is_promotion"`
	IsTopProduct  bool      `json:"is_top_product"`
	IsUsed        bool      `json:"is_used"`
	MainPhoto     string    `json:"main_photo"`

	// Photos - упорядоченный список URL: существующие фотографии идут
	// перед добавленными при последнем обновлении
	Photos StringList `json:"photos" gorm:"type:jsonb"`

	// ExtraAttributes - значения атрибутов по имени. Ключи обычно берутся
	// из схем категории и подкатегории, но по умолчанию это не проверяется.
	ExtraAttributes AttributeMap `json:"extra_attributes" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Conditions - фиксированный набор состояний товара
var Conditions = []string{
	"Neuf",
	"D'occasion - Comme neuf",
	"D'occasion - Etat parfait",
	"D'occasion - Très bon état",
	"D'occasion - Bon état",
	"D'occasion - Etat correct",
}

// DefaultCondition - состояние по умолчанию для нового товара
const DefaultCondition = "Neuf"

// IsValidCondition проверяет, что состояние из фиксированного набора
func IsValidCondition(condition string) bool {
	for _, c := range Conditions {
		if c == condition {
			return true
		}
	}
	return false
}

// Типы событий каталога для Kafka
const (
	EventProductCreated = "PRODUCT_CREATED"
	EventProductUpdated = "PRODUCT_UPDATED"
	EventProductDeleted = "PRODUCT_DELETED"
)

// CatalogEvent представляет событие изменения товара для Kafka
type CatalogEvent struct {
	EventType     string    `json:"event_type"`
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	CategoryID    uuid.UUID `json:"category_id"`
	SubcategoryID uuid.UUID `json:"subcategory_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// AuditEntry - запись журнала действий администраторов в MongoDB
type AuditEntry struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Actor      string             `json:"actor" bson:"actor"`
	Action     string             `json:"action" bson:"action"`
	EntityType string             `json:"entity_type" bson:"entity_type"`
	EntityID   string             `json:"entity_id" bson:"entity_id"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
}
