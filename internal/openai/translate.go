package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const translateSystemPrompt = "You are a translation engine. Translate the user's text into the language identified by the BCP 47 code %q. Detect the source language automatically. Return only the translated text, with no commentary."

// Translate translates text into the target language, auto-detecting the
// source. The caller decides when translation applies; this method always
// performs the call.
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if text == "" {
		return "", ErrEmptyText
	}
	if targetLang == "" {
		return "", fmt.Errorf("target language is required")
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(translateSystemPrompt, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
