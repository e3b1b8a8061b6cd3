package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoTranscript is returned when the speech service produced an empty
// transcript (silence or an unintelligible recording).
var ErrNoTranscript = errors.New("no transcript produced")

// Transcribe converts an audio recording to text in the pipeline's working
// language. filename carries the original extension so the provider can
// detect the container format.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}
	if filename == "" {
		filename = "audio.webm"
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		return "", ErrNoTranscript
	}

	return transcript, nil
}
