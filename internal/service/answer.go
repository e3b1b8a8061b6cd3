package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/telemetry"
)

// QueryEmbedder defines the interface for question embedding
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, question string) ([]float32, error)
}

// CandidateRetriever defines the interface for knowledge retrieval
type CandidateRetriever interface {
	Retrieve(ctx context.Context, vector []float32) ([]*domain.QueryCandidate, error)
}

// Translator defines the interface for answer translation
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// AnswerInput represents one citizen question
type AnswerInput struct {
	Question string
	Language string
	History  []domain.ConversationTurn
}

// AnswerOutput represents the final reply returned to the caller
type AnswerOutput struct {
	Reply        string
	Groundedness domain.Groundedness
}

// AnswerService runs the full question pipeline: embed, retrieve, assemble,
// generate, and optionally translate. History is passed to the generator
// verbatim; no turn cap or summarization is applied.
type AnswerService struct {
	embedder         QueryEmbedder
	retriever        CandidateRetriever
	assembler        *ContextAssembler
	generator        *AnswerGenerator
	translator       Translator
	defaultLanguage  string
	translateTimeout time.Duration
}

// NewAnswerService creates a new AnswerService instance
func NewAnswerService(
	embedder QueryEmbedder,
	retriever CandidateRetriever,
	assembler *ContextAssembler,
	generator *AnswerGenerator,
	translator Translator,
	defaultLanguage string,
	translateTimeout time.Duration,
) *AnswerService {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	if translateTimeout <= 0 {
		translateTimeout = 30 * time.Second
	}
	return &AnswerService{
		embedder:         embedder,
		retriever:        retriever,
		assembler:        assembler,
		generator:        generator,
		translator:       translator,
		defaultLanguage:  defaultLanguage,
		translateTimeout: translateTimeout,
	}
}

// Answer resolves one question. Translation runs only when the requested
// language differs from the pipeline default, and a translation failure is
// fatal to the request. A generation failure is not: the caller receives the
// fixed degraded message instead.
func (s *AnswerService) Answer(ctx context.Context, input AnswerInput) (*AnswerOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnswerService.Answer", telemetry.SpanAttributes{
		Language:  input.Language,
		Operation: "answer",
	})
	defer span.End()

	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	vector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	candidates, err := s.retriever.Retrieve(ctx, vector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}

	contextText := s.assembler.Assemble(candidates)
	result := s.generator.Generate(ctx, question, contextText, input.History)

	reply := result.Text
	if s.needsTranslation(input.Language) {
		translateCtx, cancel := context.WithTimeout(ctx, s.translateTimeout)
		defer cancel()

		translated, err := s.translator.Translate(translateCtx, reply, input.Language)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
		}
		reply = translated
	}

	return &AnswerOutput{
		Reply:        reply,
		Groundedness: result.Groundedness,
	}, nil
}

func (s *AnswerService) needsTranslation(language string) bool {
	return language != "" && !strings.EqualFold(language, s.defaultLanguage)
}
