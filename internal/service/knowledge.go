package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/pagination"
	"github.com/nagrik-labs/nagrikai/internal/telemetry"
)

// KnowledgeRepositoryInterface defines the repository interface for knowledge persistence
type KnowledgeRepositoryInterface interface {
	Create(ctx context.Context, item *domain.KnowledgeItem) error
	GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error)
	ListWithCursor(ctx context.Context, namespace string, cursor *pagination.Cursor, limit int) (*KnowledgePageResult, error)
	Update(ctx context.Context, item *domain.KnowledgeItem) error
	Delete(ctx context.Context, id string) error
}

type KnowledgePageResult struct {
	Items      []*domain.KnowledgeItem
	NextCursor string
	HasMore    bool
}

// EmbeddingJobRepositoryInterface defines the repository interface for embedding job persistence
type EmbeddingJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.EmbeddingJob) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// KnowledgeService handles the ingestion path: publishing, updating, and
// removing knowledge items. Every publish and content update enqueues an
// embedding job in the same transaction as the item write.
type KnowledgeService struct {
	txRunner TxRunner
	repo     KnowledgeRepositoryInterface
	uuidGen  UUIDGenerator
}

// NewKnowledgeService creates a new KnowledgeService instance
func NewKnowledgeService(txRunner TxRunner, repo KnowledgeRepositoryInterface) *KnowledgeService {
	return &KnowledgeService{
		txRunner: txRunner,
		repo:     repo,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewKnowledgeServiceWithUUIDGen creates a new KnowledgeService with custom UUID generator (for testing)
func NewKnowledgeServiceWithUUIDGen(txRunner TxRunner, repo KnowledgeRepositoryInterface, uuidGen UUIDGenerator) *KnowledgeService {
	return &KnowledgeService{
		txRunner: txRunner,
		repo:     repo,
		uuidGen:  uuidGen,
	}
}

// PublishInput represents the input for publishing a knowledge item
type PublishInput struct {
	Kind        domain.ItemKind
	DisplayName string
	Category    string
	Content     string
}

// UpdateItemInput represents the input for updating a knowledge item
type UpdateItemInput struct {
	ItemID      string
	DisplayName string
	Category    string
	Content     string
}

type ListItemsInput struct {
	Namespace string
	Cursor    string
	Limit     int
}

type ListItemsOutput struct {
	Items   []*domain.KnowledgeItem
	Cursor  string
	HasMore bool
}

// Publish creates a new knowledge item and queues its embedding job.
func (s *KnowledgeService) Publish(ctx context.Context, input PublishInput) (*domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Publish", telemetry.SpanAttributes{
		Operation: "publish",
	})
	defer span.End()

	item := domain.NewKnowledgeItem(s.uuidGen.NewString(), input.Kind, input.DisplayName, input.Category, input.Content, time.Now().UTC())
	if err := domain.ValidateKnowledgeItem(item); err != nil {
		return nil, err
	}

	job := s.newJob(item.ID)

	err := s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Items().Create(ctx, item); err != nil {
			return err
		}
		return repos.EmbeddingJobs().Create(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Update rewrites an item's content and queues re-embedding.
func (s *KnowledgeService) Update(ctx context.Context, input UpdateItemInput) (*domain.KnowledgeItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Update", telemetry.SpanAttributes{
		ItemID:    input.ItemID,
		Operation: "update",
	})
	defer span.End()

	item, err := s.repo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	item.DisplayName = input.DisplayName
	item.Category = input.Category
	item.Content = input.Content
	if err := domain.ValidateKnowledgeItem(item); err != nil {
		return nil, err
	}

	job := s.newJob(item.ID)

	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Items().Update(ctx, item); err != nil {
			return err
		}
		return repos.EmbeddingJobs().Create(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Get returns a single knowledge item by ID.
func (s *KnowledgeService) Get(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes a knowledge item.
func (s *KnowledgeService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Delete", telemetry.SpanAttributes{
		ItemID:    id,
		Operation: "delete",
	})
	defer span.End()

	return s.repo.Delete(ctx, id)
}

// List returns a page of knowledge items, optionally filtered by namespace.
func (s *KnowledgeService) List(ctx context.Context, input ListItemsInput) (*ListItemsOutput, error) {
	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.ListWithCursor(ctx, input.Namespace, cursor, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{
		Items:   page.Items,
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	}, nil
}

func (s *KnowledgeService) newJob(itemID string) *domain.EmbeddingJob {
	return &domain.EmbeddingJob{
		ID:        s.uuidGen.NewString(),
		ItemID:    itemID,
		Status:    domain.EmbeddingJobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}
