package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"quill/log"
)

// whisperEngine runs whisper.cpp in-process through the CGo bindings. The
// model is loaded once at construction; each transcription gets a fresh
// context because contexts are not reusable across runs.
type whisperEngine struct {
	model    whisperlib.Model
	language string
	threads  int
}

func newWhisper(sel Selector) (*whisperEngine, error) {
	path, err := resolveModelFile(sel)
	if err != nil {
		return nil, err
	}
	model, err := whisperlib.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: loading model %s: %v", ErrUnavailable, path, err)
	}
	return &whisperEngine{
		model:    model,
		language: sel.Language,
		threads:  sel.Threads,
	}, nil
}

func (e *whisperEngine) Name() string { return "whisper" }

func (e *whisperEngine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}

func (e *whisperEngine) Transcribe(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whisper context: %w", err)
	}
	if e.language != "" {
		if err := wctx.SetLanguage(e.language); err != nil {
			log.Warnf("whisper: language %q not accepted: %v", e.language, err)
		}
	}
	if e.threads > 0 {
		wctx.SetThreads(uint(e.threads))
	}

	if err := wctx.Process(req.Samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper inference: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("whisper segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
