// Package engine selects and drives a transcription backend.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type Kind string

const (
	KindWhisper    Kind = "whisper"
	KindWhisperCLI Kind = "whisper-cli"
	KindONNX       Kind = "onnx"
	KindOpenAI     Kind = "openai"
)

// Kinds lists the accepted engine names.
func Kinds() []Kind {
	return []Kind{KindWhisper, KindWhisperCLI, KindONNX, KindOpenAI}
}

// Selector carries everything needed to construct an engine.
type Selector struct {
	Kind     Kind
	Model    string // model name or explicit file path
	ModelDir string // search directory for local model files
	CacheDir string // root for downloaded model bundles
	Provider string // onnx execution provider
	Threads  int    // inference threads, 0 means engine default
	Language string
}

// Request is one session's audio.
type Request struct {
	Samples    []float32
	SampleRate int
}

type Engine interface {
	Name() string
	Transcribe(ctx context.Context, req Request) (string, error)
	Close() error
}

// New constructs the selected engine and proves it is ready: models are
// loaded, or fetched, before the first capture. Check-model mode is exactly
// New followed by Close.
func New(sel Selector) (Engine, error) {
	switch sel.Kind {
	case KindWhisper, "":
		return newWhisper(sel)
	case KindWhisperCLI:
		return newWhisperCLI(sel)
	case KindONNX:
		return newONNX(sel)
	case KindOpenAI:
		return newOpenAI(sel)
	default:
		return nil, fmt.Errorf("unknown engine %q (valid: %v)", sel.Kind, Kinds())
	}
}

// DefaultModelDir is where local ggml models are looked up when no explicit
// path is given.
func DefaultModelDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "quill", "models")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "quill", "models")
}

// DefaultCacheDir roots downloaded model bundles.
func DefaultCacheDir() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cache, "quill")
}

// resolveModelFile maps "base" style names to ggml files under the model
// directory; explicit paths are used as-is.
func resolveModelFile(sel Selector) (string, error) {
	if fileExists(sel.Model) {
		return sel.Model, nil
	}
	dir := sel.ModelDir
	if dir == "" {
		dir = DefaultModelDir()
	}
	path := filepath.Join(dir, "ggml-"+sel.Model+".bin")
	if fileExists(path) {
		return path, nil
	}
	return "", fmt.Errorf("%w: no model file for %q (checked %s)", ErrUnavailable, sel.Model, path)
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
