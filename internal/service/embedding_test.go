package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEmbeddingClient mocks the OpenAI client
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockEmbeddingItemRepo mocks the item repository for the embedding service
type MockEmbeddingItemRepo struct {
	mock.Mock
}

func (m *MockEmbeddingItemRepo) GetByID(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockEmbeddingItemRepo) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
}

func TestEmbeddingService_EmbedItem_Success(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockRepo := new(MockEmbeddingItemRepo)
	svc := NewEmbeddingService(mockClient, mockRepo, 5*time.Second)

	itemID := "item-123"
	item := domain.NewKnowledgeItem(itemID, domain.ItemKindService, "Ration Card", "Food", "Apply at the supply office.", time.Now().UTC())

	embedding := make([]float32, 1536)
	for i := range embedding {
		embedding[i] = float32(i) * 0.001
	}

	expectedText := "Service Name: Ration Card\nCategory: Food\nDetails: Apply at the supply office."

	mockRepo.On("GetByID", mock.Anything, itemID).Return(item, nil)
	mockClient.On("GenerateEmbedding", mock.Anything, expectedText).Return(embedding, nil)
	mockRepo.On("UpdateEmbedding", mock.Anything, itemID, embedding).Return(nil)

	err := svc.EmbedItem(context.Background(), itemID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockClient.AssertExpectations(t)
}

func TestEmbeddingService_EmbedItem_ItemNotFound(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockRepo := new(MockEmbeddingItemRepo)
	svc := NewEmbeddingService(mockClient, mockRepo, 5*time.Second)

	mockRepo.On("GetByID", mock.Anything, "missing-id").Return(nil, domain.ErrItemNotFound)

	err := svc.EmbedItem(context.Background(), "missing-id")

	assert.Error(t, err)
	assert.Equal(t, domain.ErrItemNotFound, err)
	mockRepo.AssertExpectations(t)
	mockClient.AssertNotCalled(t, "GenerateEmbedding")
}

func TestEmbeddingService_EmbedItem_ClientError(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	mockRepo := new(MockEmbeddingItemRepo)
	svc := NewEmbeddingService(mockClient, mockRepo, 5*time.Second)

	item := domain.NewKnowledgeItem("item-123", domain.ItemKindScheme, "PM Kisan", "", "Income support", time.Now().UTC())

	mockRepo.On("GetByID", mock.Anything, "item-123").Return(item, nil)
	mockClient.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("rate limit exceeded"))

	err := svc.EmbedItem(context.Background(), "item-123")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate embedding")
	mockRepo.AssertNotCalled(t, "UpdateEmbedding")
}

func TestEmbeddingService_EmbedQuery_Success(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	svc := NewEmbeddingService(mockClient, nil, 5*time.Second)

	embedding := []float32{0.1, 0.2, 0.3}
	mockClient.On("GenerateEmbedding", mock.Anything, "how to apply").Return(embedding, nil)

	got, err := svc.EmbedQuery(context.Background(), "how to apply")

	assert.NoError(t, err)
	assert.Equal(t, embedding, got)
	mockClient.AssertExpectations(t)
}

func TestEmbeddingService_EmbedQuery_EmptyQuestion(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	svc := NewEmbeddingService(mockClient, nil, 5*time.Second)

	_, err := svc.EmbedQuery(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	mockClient.AssertNotCalled(t, "GenerateEmbedding")
}

func TestEmbeddingService_EmbedQuery_WrapsFailure(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	svc := NewEmbeddingService(mockClient, nil, 5*time.Second)

	mockClient.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	_, err := svc.EmbedQuery(context.Background(), "how to apply")

	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
	assert.Contains(t, err.Error(), "provider down")
}
