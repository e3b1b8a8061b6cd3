package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/pagination"
	"github.com/nagrik-labs/nagrikai/internal/service"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeRepository persists knowledge items for the ingestion path.
// The answer pipeline reads items only through SearchRepository.
type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func NewKnowledgeRepositoryWithTx(tx pgx.Tx) *KnowledgeRepository {
	return &KnowledgeRepository{db: tx}
}

func (r *KnowledgeRepository) Create(ctx context.Context, item *domain.KnowledgeItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_items (id, namespace, kind, display_name, category, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.Namespace, item.Kind, item.DisplayName, nullableString(item.Category), item.Content, item.CreatedAt, item.UpdatedAt,
	)
	return err
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	var item domain.KnowledgeItem
	var category *string
	err := r.db.QueryRow(ctx,
		`SELECT id, namespace, kind, display_name, category, content, created_at, updated_at
		 FROM knowledge_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Namespace, &item.Kind, &item.DisplayName, &category, &item.Content, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	if category != nil {
		item.Category = *category
	}
	return &item, nil
}

func (r *KnowledgeRepository) ListWithCursor(ctx context.Context, namespace string, cursor *pagination.Cursor, limit int) (*service.KnowledgePageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	switch {
	case namespace != "" && cursor != nil:
		rows, err = r.db.Query(ctx,
			`SELECT id, namespace, kind, display_name, category, content, created_at, updated_at
			 FROM knowledge_items
			 WHERE namespace = $1 AND (updated_at, id) < ($2, $3)
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $4`,
			namespace, cursor.Timestamp, cursor.LastID, limit+1,
		)
	case namespace != "":
		rows, err = r.db.Query(ctx,
			`SELECT id, namespace, kind, display_name, category, content, created_at, updated_at
			 FROM knowledge_items
			 WHERE namespace = $1
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $2`,
			namespace, limit+1,
		)
	case cursor != nil:
		rows, err = r.db.Query(ctx,
			`SELECT id, namespace, kind, display_name, category, content, created_at, updated_at
			 FROM knowledge_items
			 WHERE (updated_at, id) < ($1, $2)
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	default:
		rows, err = r.db.Query(ctx,
			`SELECT id, namespace, kind, display_name, category, content, created_at, updated_at
			 FROM knowledge_items
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanItemRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.UpdatedAt)
	}

	return &service.KnowledgePageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *KnowledgeRepository) Update(ctx context.Context, item *domain.KnowledgeItem) error {
	item.UpdatedAt = time.Now().UTC()
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_items SET display_name = $1, category = $2, content = $3, updated_at = $4
		 WHERE id = $5`,
		item.DisplayName, nullableString(item.Category), item.Content, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM knowledge_items WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// UpdateEmbedding replaces the stored vector for an item. Called by the
// embedding worker after the item's canonical text has been embedded.
func (r *KnowledgeRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_items SET embedding = $1, updated_at = $2 WHERE id = $3`,
		pgvector.NewVector(embedding), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func scanItemRows(rows pgx.Rows) ([]*domain.KnowledgeItem, error) {
	var results []*domain.KnowledgeItem
	for rows.Next() {
		var item domain.KnowledgeItem
		var category *string
		if err := rows.Scan(&item.ID, &item.Namespace, &item.Kind, &item.DisplayName, &category, &item.Content, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		if category != nil {
			item.Category = *category
		}
		results = append(results, &item)
	}
	return results, rows.Err()
}
