package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/telemetry"
)

// TranscriptionClient defines the interface for speech-to-text
type TranscriptionClient interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// AudioArchive stores raw audio uploads for later review. Optional.
type AudioArchive interface {
	Store(ctx context.Context, key string, audio []byte, contentType string) error
}

// TranscriptionService converts uploaded audio into text. An upstream failure
// is fatal to the request; there is no retry or fallback transcript. When an
// archive is configured the raw audio is stored best-effort after a
// successful transcription.
type TranscriptionService struct {
	client  TranscriptionClient
	archive AudioArchive
	timeout time.Duration
}

// NewTranscriptionService creates a new TranscriptionService instance
func NewTranscriptionService(client TranscriptionClient, archive AudioArchive, timeout time.Duration) *TranscriptionService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &TranscriptionService{
		client:  client,
		archive: archive,
		timeout: timeout,
	}
}

// Transcribe returns the transcript for the audio buffer.
func (s *TranscriptionService) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "TranscriptionService.Transcribe", telemetry.SpanAttributes{
		Operation: "transcribe",
	})
	defer span.End()

	if len(audio) == 0 {
		return "", domain.ErrEmptyAudio
	}

	transcribeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	transcript, err := s.client.Transcribe(transcribeCtx, audio, filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, err)
	}

	if s.archive != nil {
		key := archiveKey(filename)
		if err := s.archive.Store(ctx, key, audio, contentType); err != nil {
			log.Printf("audio archive store failed: key=%s error=%v", key, err)
			telemetry.CaptureError(ctx, err, telemetry.SpanAttributes{Operation: "archive_audio"})
		}
	}

	return transcript, nil
}

func archiveKey(filename string) string {
	if filename == "" {
		filename = "audio.webm"
	}
	return fmt.Sprintf("uploads/%s/%s", time.Now().UTC().Format("2006-01-02"), filename)
}
