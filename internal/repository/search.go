package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/pgvector/pgvector-go"
)

// SearchRepository implements nearest-neighbor queries over the knowledge
// store. It is the only read path the answer pipeline uses.
type SearchRepository struct {
	pool *pgxpool.Pool
}

func NewSearchRepository(pool *pgxpool.Pool) *SearchRepository {
	return &SearchRepository{pool: pool}
}

// QueryNamespace returns up to topK nearest neighbors for the query vector
// within one namespace, ordered by similarity. Items without a computed
// embedding are excluded. Fewer than topK rows come back when the namespace
// is smaller; no padding is applied.
func (r *SearchRepository) QueryNamespace(ctx context.Context, namespace string, vector []float32, topK int) ([]*domain.QueryCandidate, error) {
	if topK <= 0 {
		topK = 3
	}

	vec := pgvector.NewVector(vector)

	rows, err := r.pool.Query(ctx,
		`SELECT id, namespace, kind, display_name, category, content,
		        1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM knowledge_items
		 WHERE namespace = $2 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, namespace, topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]*domain.QueryCandidate, 0, topK)
	for rows.Next() {
		var item domain.KnowledgeItem
		var category *string
		var score float32
		if err := rows.Scan(&item.ID, &item.Namespace, &item.Kind, &item.DisplayName, &category, &item.Content, &score); err != nil {
			return nil, err
		}
		if category != nil {
			item.Category = *category
		}
		candidates = append(candidates, &domain.QueryCandidate{
			Item:      &item,
			Score:     score,
			Namespace: namespace,
		})
	}

	return candidates, rows.Err()
}
