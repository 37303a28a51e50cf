package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func stubLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = orig })
}

func TestNewWhisperCLIUnavailable(t *testing.T) {
	stubLookPath(t, func(string) (string, error) {
		return "", exec.ErrNotFound
	})

	_, err := New(Selector{Kind: KindWhisperCLI, Model: "base"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestWhisperCLITranscribe(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "whisper-cli")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho \"  hello from engine  \"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	stubLookPath(t, func(name string) (string, error) {
		if name == "whisper-cli" {
			return script, nil
		}
		return "", exec.ErrNotFound
	})

	model := filepath.Join(dir, "ggml-base.bin")
	if err := os.WriteFile(model, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := New(Selector{Kind: KindWhisperCLI, Model: model, Language: "en"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	got, err := e.Transcribe(context.Background(), Request{
		Samples:    make([]float32, 1600),
		SampleRate: 16000,
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "hello from engine" {
		t.Errorf("got %q, want trimmed stub output", got)
	}
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	samples := []float32{0, 0.5, -0.5, 1}

	if err := writeWAV(path, samples, 16000); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if dec.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Errorf("channels = %d, want 1", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Errorf("bit depth = %d, want 16", dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}
	if buf.Data[1] != 16384 {
		t.Errorf("sample 1 = %d, want 16384", buf.Data[1])
	}
	if buf.Data[3] != 32767 {
		t.Errorf("sample 3 = %d, want 32767", buf.Data[3])
	}
}
