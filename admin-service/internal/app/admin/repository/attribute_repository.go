package repository

import (
	"context"
	"fmt"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const attributesSchema = `
CREATE TABLE IF NOT EXISTS attributes (
	id UUID PRIMARY KEY,
	owner_kind TEXT NOT NULL,
	owner_id UUID NOT NULL,
	name TEXT NOT NULL,
	is_displayable BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS attributes_owner_idx ON attributes (owner_kind, owner_id);
`

type attributeRepository struct {
	db *pgxpool.Pool
}

// NewAttributeRepository создает репозиторий схем атрибутов.
// Таблица attributes создается при первом запуске, если ее нет.
func NewAttributeRepository(db *pgxpool.Pool) AttributeRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, attributesSchema); err != nil {
		// Таблица может уже существовать или создаваться миграцией извне
		logger.Warn().Err(err).Msg("failed to ensure attributes table")
	}

	return &attributeRepository{db: db}
}

// List возвращает схему атрибутов владельца в порядке добавления
func (r *attributeRepository) List(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) ([]entity.AttributeDefinition, error) {
	query := `
		SELECT id, owner_kind, owner_id, name, is_displayable, created_at
		FROM attributes
		WHERE owner_kind = $1 AND owner_id = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, ownerKind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}
	defer rows.Close()

	var attributes []entity.AttributeDefinition
	for rows.Next() {
		var attr entity.AttributeDefinition
		if err := rows.Scan(&attr.ID, &attr.OwnerKind, &attr.OwnerID, &attr.Name, &attr.IsDisplayable, &attr.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		attributes = append(attributes, attr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attributes: %w", err)
	}

	return attributes, nil
}

// Replace заменяет схему владельца целиком в одной транзакции.
// extra_attributes существующих товаров при этом не трогаются:
// осиротевшие и недостающие ключи допустимы.
func (r *attributeRepository) Replace(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID, attributes []entity.AttributeDefinition) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deleteQuery := `DELETE FROM attributes WHERE owner_kind = $1 AND owner_id = $2`
	if _, err := tx.Exec(ctx, deleteQuery, ownerKind, ownerID); err != nil {
		return fmt.Errorf("failed to clear attributes: %w", err)
	}

	insertQuery := `
		INSERT INTO attributes (id, owner_kind, owner_id, name, is_displayable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, attr := range attributes {
		if _, err := tx.Exec(ctx, insertQuery, attr.ID, attr.OwnerKind, attr.OwnerID, attr.Name, attr.IsDisplayable, attr.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert attribute %q: %w", attr.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit attributes replace: %w", err)
	}

	return nil
}

// Add добавляет одно определение атрибута к схеме владельца
func (r *attributeRepository) Add(ctx context.Context, attribute *entity.AttributeDefinition) error {
	query := `
		INSERT INTO attributes (id, owner_kind, owner_id, name, is_displayable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		attribute.ID, attribute.OwnerKind, attribute.OwnerID,
		attribute.Name, attribute.IsDisplayable, attribute.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add attribute: %w", err)
	}

	return nil
}

// Delete удаляет определение атрибута по ID
func (r *attributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM attributes WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete attribute: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAttributeNotFound
	}

	return nil
}

// DeleteByOwner удаляет всю схему владельца.
// Вызывается при удалении категории или подкатегории.
func (r *attributeRepository) DeleteByOwner(ctx context.Context, ownerKind entity.OwnerKind, ownerID uuid.UUID) error {
	query := `DELETE FROM attributes WHERE owner_kind = $1 AND owner_id = $2`

	if _, err := r.db.Exec(ctx, query, ownerKind, ownerID); err != nil {
		return fmt.Errorf("failed to delete attributes by owner: %w", err)
	}

	return nil
}
