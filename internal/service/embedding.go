package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nagrik-labs/nagrikai/internal/domain"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingItemRepository defines the repository interface for embedding operations
type EmbeddingItemRepository interface {
	GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

// EmbeddingService turns knowledge items and citizen questions into vectors.
// EmbedItem is called by the background worker; EmbedQuery by the answer path.
type EmbeddingService struct {
	client  EmbeddingClient
	repo    EmbeddingItemRepository
	timeout time.Duration
}

// NewEmbeddingService creates a new EmbeddingService instance
func NewEmbeddingService(client EmbeddingClient, repo EmbeddingItemRepository, timeout time.Duration) *EmbeddingService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmbeddingService{
		client:  client,
		repo:    repo,
		timeout: timeout,
	}
}

// EmbedItem generates and stores the vector for a knowledge item.
// The text embedded is the item's canonical form, so query-time similarity
// sees the same field labels the retriever's prompt rendering uses.
func (s *EmbeddingService) EmbedItem(ctx context.Context, itemID string) error {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.client.GenerateEmbedding(ctx, item.EmbeddingText())
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	if err := s.repo.UpdateEmbedding(ctx, itemID, embedding); err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}

	return nil
}

// EmbedQuery generates the vector for a citizen's question.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, question string) ([]float32, error) {
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	embedding, err := s.client.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailed, err)
	}

	return embedding, nil
}
