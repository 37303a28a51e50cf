package engine

import (
	"context"
	"fmt"
	"strings"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"quill/encoder"
)

// onnxEngine runs whisper exported to ONNX through the sherpa-onnx offline
// recognizer. Model bundles are fetched and cached by EnsureBundle.
type onnxEngine struct {
	recognizer *sherpa.OfflineRecognizer
}

func newONNX(sel Selector) (*onnxEngine, error) {
	bundle, err := EnsureBundle(sel.Model, sel.CacheDir)
	if err != nil {
		return nil, err
	}

	provider := sel.Provider
	if provider == "" {
		provider = "cpu"
	}
	threads := sel.Threads
	if threads <= 0 {
		threads = 2
	}

	cfg := sherpa.OfflineRecognizerConfig{}
	cfg.FeatConfig.SampleRate = encoder.SampleRate
	cfg.FeatConfig.FeatureDim = 80
	cfg.ModelConfig.Whisper.Encoder = bundle.Encoder
	cfg.ModelConfig.Whisper.Decoder = bundle.Decoder
	cfg.ModelConfig.Whisper.Language = sel.Language
	cfg.ModelConfig.Whisper.Task = "transcribe"
	cfg.ModelConfig.Tokens = bundle.Tokens
	cfg.ModelConfig.NumThreads = threads
	cfg.ModelConfig.Provider = provider
	cfg.DecodingMethod = "greedy_search"

	recognizer := sherpa.NewOfflineRecognizer(&cfg)
	if recognizer == nil {
		return nil, fmt.Errorf("%w: onnx recognizer rejected bundle %s", ErrUnavailable, bundle.Dir)
	}
	return &onnxEngine{recognizer: recognizer}, nil
}

func (e *onnxEngine) Name() string { return "onnx" }

func (e *onnxEngine) Close() error {
	if e.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(e.recognizer)
		e.recognizer = nil
	}
	return nil
}

func (e *onnxEngine) Transcribe(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stream := sherpa.NewOfflineStream(e.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(req.SampleRate, req.Samples)
	e.recognizer.Decode(stream)

	result := stream.GetResult()
	if result == nil {
		return "", fmt.Errorf("onnx: recognizer returned no result")
	}
	return strings.TrimSpace(result.Text), nil
}
