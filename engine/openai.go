package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"quill/encoder"
)

// openaiEngine uploads FLAC-compressed audio to the hosted transcription
// API. Local model names like "base" are meaningless there and map to
// whisper-1.
type openaiEngine struct {
	client   oai.Client
	model    string
	language string
}

func newOpenAI(sel Selector) (*openaiEngine, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrUnavailable)
	}

	model := sel.Model
	if !strings.HasPrefix(model, "whisper-") && !strings.HasPrefix(model, "gpt-4o-") {
		model = "whisper-1"
	}

	return &openaiEngine{
		client:   oai.NewClient(option.WithAPIKey(key)),
		model:    model,
		language: sel.Language,
	}, nil
}

func (e *openaiEngine) Name() string { return "openai" }

func (e *openaiEngine) Close() error { return nil }

func (e *openaiEngine) Transcribe(ctx context.Context, req Request) (string, error) {
	flacData, err := encoder.FLAC(req.Samples)
	if err != nil {
		return "", fmt.Errorf("openai: encoding upload: %w", err)
	}

	params := oai.AudioTranscriptionNewParams{
		File:  oai.File(bytes.NewReader(flacData), "audio.flac", "audio/flac"),
		Model: oai.AudioModel(e.model),
	}
	if e.language != "" {
		params.Language = param.NewOpt(e.language)
	}

	resp, err := e.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
