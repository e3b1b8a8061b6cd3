package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/nagrik-labs/nagrikai/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

// Complete runs a single grounded chat completion: the system prompt, then
// prior turns mapped into the provider's role vocabulary in the order
// supplied, then the citizen's question. One request, no tool use.
func (c *Client) Complete(ctx context.Context, system string, history []domain.ConversationTurn, question string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})

	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    chatRole(turn.Role),
			Content: turn.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

// chatRole maps a conversation turn role onto the provider's vocabulary.
// Unknown roles are treated as user turns rather than rejected; history is
// passed through as supplied.
func chatRole(role domain.TurnRole) string {
	if role == domain.TurnRoleModel {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}
