package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/telemetry"
)

// CompletionClient defines the interface for chat completion
type CompletionClient interface {
	Complete(ctx context.Context, system string, history []domain.ConversationTurn, question string) (string, error)
}

// Fixed user-facing messages. These are returned verbatim so the HTTP layer
// and tests can match on them.
const (
	NoInformationMessage = "I am sorry, I could not find information about this in my knowledge base. " +
		"Please try rephrasing your question, or contact your nearest citizen service centre for assistance."

	RefusalSentence = "I am sorry, I do not have information about that. " +
		"I can only help with questions about government schemes and citizen services."

	ServiceUnavailableMessage = "I am sorry, I am unable to answer right now. Please try again in a few moments."
)

// GeneratorConfig names the assistant and its jurisdiction in the prompt.
type GeneratorConfig struct {
	AssistantName     string
	Jurisdiction      string
	CompletionTimeout time.Duration
}

// AnswerGenerator produces the grounded answer for a question. With an empty
// context it short-circuits to NoInformationMessage and the completion model
// is never called. A failed or empty completion degrades to
// ServiceUnavailableMessage; the underlying error is logged, never surfaced.
type AnswerGenerator struct {
	client CompletionClient
	cfg    GeneratorConfig
}

// NewAnswerGenerator creates a new AnswerGenerator instance
func NewAnswerGenerator(client CompletionClient, cfg GeneratorConfig) *AnswerGenerator {
	if cfg.AssistantName == "" {
		cfg.AssistantName = "Nagrik Sahayak"
	}
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = 60 * time.Second
	}
	return &AnswerGenerator{client: client, cfg: cfg}
}

func (g *AnswerGenerator) Generate(ctx context.Context, question, contextText string, history []domain.ConversationTurn) domain.AnswerResult {
	ctx, span := telemetry.StartSpan(ctx, "AnswerGenerator.Generate", telemetry.SpanAttributes{
		Operation: "generate",
	})
	defer span.End()

	if contextText == "" {
		return domain.AnswerResult{
			Text:         NoInformationMessage,
			Groundedness: domain.GroundednessNoContext,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.CompletionTimeout)
	defer cancel()

	answer, err := g.client.Complete(ctx, g.systemPrompt(contextText), history, question)
	if err != nil {
		log.Printf("completion failed: error=%v", err)
		telemetry.CaptureError(ctx, err, telemetry.SpanAttributes{Operation: "complete"})
		return domain.AnswerResult{
			Text:         ServiceUnavailableMessage,
			Groundedness: domain.GroundednessGrounded,
		}
	}

	return domain.AnswerResult{
		Text:         answer,
		Groundedness: domain.GroundednessGrounded,
	}
}

func (g *AnswerGenerator) systemPrompt(contextText string) string {
	jurisdiction := g.cfg.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = "the government"
	}

	return fmt.Sprintf(
		"You are %s, a helpful assistant for citizens of %s. "+
			"You answer questions about government schemes and citizen services. "+
			"Answer strictly and only from the context provided below. "+
			"If the context does not cover the question, reply exactly: %q "+
			"Do not invent schemes, eligibility rules, fees, or deadlines.\n\n"+
			"Context:\n%s",
		g.cfg.AssistantName, jurisdiction, RefusalSentence, contextText,
	)
}
