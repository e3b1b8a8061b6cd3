package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nagrik-labs/nagrikai/internal/api/handlers"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/service"
	"github.com/stretchr/testify/assert"
)

type stubAnswerService struct{}

func (s *stubAnswerService) Answer(ctx context.Context, input service.AnswerInput) (*service.AnswerOutput, error) {
	return &service.AnswerOutput{Reply: "stub reply", Groundedness: domain.GroundednessGrounded}, nil
}

type stubTranscriptionService struct{}

func (s *stubTranscriptionService) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	return "stub transcript", nil
}

type stubKnowledgeService struct{}

func (s *stubKnowledgeService) Publish(ctx context.Context, input service.PublishInput) (*domain.KnowledgeItem, error) {
	return nil, domain.ErrItemNotFound
}

func (s *stubKnowledgeService) Get(ctx context.Context, id string) (*domain.KnowledgeItem, error) {
	return nil, domain.ErrItemNotFound
}

func (s *stubKnowledgeService) Update(ctx context.Context, input service.UpdateItemInput) (*domain.KnowledgeItem, error) {
	return nil, domain.ErrItemNotFound
}

func (s *stubKnowledgeService) Delete(ctx context.Context, id string) error {
	return domain.ErrItemNotFound
}

func (s *stubKnowledgeService) List(ctx context.Context, input service.ListItemsInput) (*service.ListItemsOutput, error) {
	return &service.ListItemsOutput{}, nil
}

func newTestRouter(adminToken string) http.Handler {
	return NewRouter(RouterConfig{
		AdminToken:       adminToken,
		AnswerHandler:    handlers.NewAnswerHandler(&stubAnswerService{}, &stubTranscriptionService{}),
		KnowledgeHandler: handlers.NewKnowledgeHandler(&stubKnowledgeService{}),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter("token")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRouter_AnswerIsPublic(t *testing.T) {
	router := newTestRouter("token")

	req := httptest.NewRequest(http.MethodPost, "/answer", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stub reply")
}

func TestRouter_TranscribeIsPublic(t *testing.T) {
	router := newTestRouter("token")

	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader("audio-bytes"))
	req.Header.Set("Content-Type", "audio/webm")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stub transcript")
}

func TestRouter_KnowledgeRequiresAdminToken(t *testing.T) {
	router := newTestRouter("secret")

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/knowledge", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/knowledge", nil)
		req.Header.Set("Authorization", "Bearer secret")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router := newTestRouter("token")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_BodyLimit(t *testing.T) {
	router := newTestRouter("token")

	req := httptest.NewRequest(http.MethodPost, "/answer", strings.NewReader("{}"))
	req.ContentLength = 20 * 1024 * 1024
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
