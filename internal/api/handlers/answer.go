package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/nagrik-labs/nagrikai/internal/api"
	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/service"
)

type AnswerService interface {
	Answer(ctx context.Context, input service.AnswerInput) (*service.AnswerOutput, error)
}

type TranscriptionService interface {
	Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error)
}

// AnswerHandler serves the citizen-facing endpoints.
type AnswerHandler struct {
	answers     AnswerService
	transcripts TranscriptionService
}

func NewAnswerHandler(answers AnswerService, transcripts TranscriptionService) *AnswerHandler {
	return &AnswerHandler{answers: answers, transcripts: transcripts}
}

type conversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnswerRequest struct {
	Message  string             `json:"message"`
	Language string             `json:"language,omitempty"`
	History  []conversationTurn `json:"history,omitempty"`
}

type AnswerResponse struct {
	Reply string `json:"reply"`
}

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

// Answer handles POST /answer.
func (h *AnswerHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	history := make([]domain.ConversationTurn, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, domain.ConversationTurn{
			Role:    domain.TurnRole(turn.Role),
			Content: turn.Content,
		})
	}

	output, err := h.answers.Answer(r.Context(), service.AnswerInput{
		Question: req.Message,
		Language: req.Language,
		History:  history,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, AnswerResponse{Reply: output.Reply})
}

// Transcribe handles POST /transcribe. Audio arrives either as a multipart
// "audio" file field or as the raw request body.
func (h *AnswerHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	audio, filename, contentType, err := readAudio(r)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "could not read audio payload")
		return
	}
	if len(audio) == 0 {
		api.HandleError(w, domain.ErrEmptyAudio)
		return
	}

	transcript, err := h.transcripts.Transcribe(r.Context(), audio, filename, contentType)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, TranscribeResponse{Transcript: transcript})
}

func readAudio(r *http.Request) ([]byte, string, string, error) {
	mediaType := r.Header.Get("Content-Type")

	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, "", "", err
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			return nil, "", "", err
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			return nil, "", "", err
		}
		return audio, header.Filename, header.Header.Get("Content-Type"), nil
	}

	audio, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", "", err
	}
	return audio, "", mediaType, nil
}
