package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewUnknownKind(t *testing.T) {
	_, err := New(Selector{Kind: "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error does not name the kind: %v", err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := New(Selector{Kind: KindOpenAI, Model: "base"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestOpenAIModelMapping(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	cases := []struct {
		in, want string
	}{
		{"base", "whisper-1"},
		{"small.en", "whisper-1"},
		{"whisper-1", "whisper-1"},
		{"gpt-4o-transcribe", "gpt-4o-transcribe"},
	}
	for _, tc := range cases {
		e, err := newOpenAI(Selector{Model: tc.in})
		if err != nil {
			t.Fatalf("newOpenAI(%q): %v", tc.in, err)
		}
		if e.model != tc.want {
			t.Errorf("model %q mapped to %q, want %q", tc.in, e.model, tc.want)
		}
	}
}

func TestResolveModelFileExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my-model.bin")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveModelFile(Selector{Model: path})
	if err != nil {
		t.Fatalf("resolveModelFile: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestResolveModelFileByName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ggml-base.bin")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveModelFile(Selector{Model: "base", ModelDir: dir})
	if err != nil {
		t.Fatalf("resolveModelFile: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestResolveModelFileMissing(t *testing.T) {
	_, err := resolveModelFile(Selector{Model: "base", ModelDir: t.TempDir()})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFakeRecordsCalls(t *testing.T) {
	f := &Fake{Text: "hello"}

	got, err := f.Transcribe(context.Background(), Request{
		Samples:    []float32{0.1, 0.2},
		SampleRate: 16000,
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}

	calls := f.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if len(calls[0].Samples) != 2 {
		t.Errorf("call recorded %d samples, want 2", len(calls[0].Samples))
	}
}

func TestFakeHonorsCancellation(t *testing.T) {
	f := &Fake{Text: "never", Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.Transcribe(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
