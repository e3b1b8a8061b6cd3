package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nagrik-labs/nagrikai/internal/api"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/service"
)

type KnowledgeService interface {
	Publish(ctx context.Context, input service.PublishInput) (*domain.KnowledgeItem, error)
	Get(ctx context.Context, id string) (*domain.KnowledgeItem, error)
	Update(ctx context.Context, input service.UpdateItemInput) (*domain.KnowledgeItem, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, input service.ListItemsInput) (*service.ListItemsOutput, error)
}

// KnowledgeHandler serves the admin ingestion endpoints.
type KnowledgeHandler struct {
	svc KnowledgeService
}

func NewKnowledgeHandler(svc KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

type PublishItemRequest struct {
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category,omitempty"`
	Content     string `json:"content"`
}

type UpdateItemRequest struct {
	DisplayName string `json:"display_name"`
	Category    string `json:"category,omitempty"`
	Content     string `json:"content"`
}

type KnowledgeItemResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Namespace   string `json:"namespace"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category,omitempty"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ListItemsResponse struct {
	Items   []*KnowledgeItemResponse `json:"items"`
	Cursor  string                   `json:"cursor,omitempty"`
	HasMore bool                     `json:"has_more"`
}

func itemToResponse(i *domain.KnowledgeItem) *KnowledgeItemResponse {
	return &KnowledgeItemResponse{
		ID:          i.ID,
		Kind:        string(i.Kind),
		Namespace:   i.Namespace,
		DisplayName: i.DisplayName,
		Category:    i.Category,
		Content:     i.Content,
		CreatedAt:   i.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   i.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *KnowledgeHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Kind == "" {
		api.Error(w, http.StatusBadRequest, "kind is required")
		return
	}
	if req.DisplayName == "" {
		api.Error(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	kind := domain.ItemKind(req.Kind)
	if kind != domain.ItemKindScheme && kind != domain.ItemKindService {
		api.Error(w, http.StatusBadRequest, "invalid item kind")
		return
	}

	item, err := h.svc.Publish(r.Context(), service.PublishInput{
		Kind:        kind,
		DisplayName: req.DisplayName,
		Category:    req.Category,
		Content:     req.Content,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, itemToResponse(item))
}

func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, itemToResponse(item))
}

func (h *KnowledgeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DisplayName == "" {
		api.Error(w, http.StatusBadRequest, "display_name is required")
		return
	}
	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	item, err := h.svc.Update(r.Context(), service.UpdateItemInput{
		ItemID:      id,
		DisplayName: req.DisplayName,
		Category:    req.Category,
		Content:     req.Content,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, itemToResponse(item))
}

func (h *KnowledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusNoContent, nil)
}

func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	output, err := h.svc.List(r.Context(), service.ListItemsInput{
		Namespace: r.URL.Query().Get("namespace"),
		Cursor:    r.URL.Query().Get("cursor"),
		Limit:     limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*KnowledgeItemResponse, 0, len(output.Items))
	for _, item := range output.Items {
		items = append(items, itemToResponse(item))
	}

	api.Success(w, http.StatusOK, ListItemsResponse{
		Items:   items,
		Cursor:  output.Cursor,
		HasMore: output.HasMore,
	})
}
