package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKnowledgeService mocks the ingestion service
type MockKnowledgeService struct {
	mock.Mock
}

func (m *MockKnowledgeService) Publish(ctx context.Context, input service.PublishInput) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeService) Get(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeService) Update(ctx context.Context, input service.UpdateItemInput) (*domain.KnowledgeItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeItem), args.Error(1)
}

func (m *MockKnowledgeService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockKnowledgeService) List(ctx context.Context, input service.ListItemsInput) (*service.ListItemsOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListItemsOutput), args.Error(1)
}

func newKnowledgeRouter(svc KnowledgeService) http.Handler {
	h := NewKnowledgeHandler(svc)
	r := chi.NewRouter()
	r.Post("/knowledge", h.Publish)
	r.Get("/knowledge", h.List)
	r.Get("/knowledge/{id}", h.Get)
	r.Put("/knowledge/{id}", h.Update)
	r.Delete("/knowledge/{id}", h.Delete)
	return r
}

func TestKnowledgeHandler_Publish(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(MockKnowledgeService)
		router := newKnowledgeRouter(mockSvc)

		item := domain.NewKnowledgeItem("item-1", domain.ItemKindService, "Ration Card", "Food", "Apply at the office.", time.Now().UTC())
		mockSvc.On("Publish", mock.Anything, service.PublishInput{
			Kind:        domain.ItemKindService,
			DisplayName: "Ration Card",
			Category:    "Food",
			Content:     "Apply at the office.",
		}).Return(item, nil)

		body := `{"kind":"service","display_name":"Ration Card","category":"Food","content":"Apply at the office."}`
		req := httptest.NewRequest(http.MethodPost, "/knowledge", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Data KnowledgeItemResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "item-1", resp.Data.ID)
		assert.Equal(t, "services", resp.Data.Namespace)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid kind", func(t *testing.T) {
		mockSvc := new(MockKnowledgeService)
		router := newKnowledgeRouter(mockSvc)

		body := `{"kind":"pamphlet","display_name":"X","content":"Y"}`
		req := httptest.NewRequest(http.MethodPost, "/knowledge", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "Publish")
	})

	t.Run("missing fields", func(t *testing.T) {
		mockSvc := new(MockKnowledgeService)
		router := newKnowledgeRouter(mockSvc)

		body := `{"kind":"service"}`
		req := httptest.NewRequest(http.MethodPost, "/knowledge", strings.NewReader(body))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestKnowledgeHandler_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		mockSvc := new(MockKnowledgeService)
		router := newKnowledgeRouter(mockSvc)

		mockSvc.On("Get", mock.Anything, "missing").Return(nil, domain.ErrItemNotFound)

		req := httptest.NewRequest(http.MethodGet, "/knowledge/missing", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestKnowledgeHandler_Delete(t *testing.T) {
	mockSvc := new(MockKnowledgeService)
	router := newKnowledgeRouter(mockSvc)

	mockSvc.On("Delete", mock.Anything, "item-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/knowledge/item-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestKnowledgeHandler_List(t *testing.T) {
	t.Run("passes query params", func(t *testing.T) {
		mockSvc := new(MockKnowledgeService)
		router := newKnowledgeRouter(mockSvc)

		mockSvc.On("List", mock.Anything, service.ListItemsInput{
			Namespace: "schemes",
			Cursor:    "abc",
			Limit:     5,
		}).Return(&service.ListItemsOutput{
			Items:   []*domain.KnowledgeItem{},
			HasMore: false,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/knowledge?namespace=schemes&cursor=abc&limit=5", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		mockSvc := new(MockKnowledgeService)
		router := newKnowledgeRouter(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/knowledge?limit=abc", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "List")
	})
}
