package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"quill/encoder"
	"quill/proc"
)

// cliBinaries are the whisper.cpp executable names probed in order. "main"
// is the name older whisper.cpp builds installed.
var cliBinaries = []string{"whisper-cli", "whisper-cpp", "main"}

const cliTimeout = 5 * time.Minute

// test seam
var lookPath = exec.LookPath

// whisperCLI shells out to an installed whisper.cpp binary. The binary only
// reads container formats, so each request goes through a temporary WAV.
type whisperCLI struct {
	binary   string
	model    string
	language string
	threads  int
}

func newWhisperCLI(sel Selector) (*whisperCLI, error) {
	var binary string
	for _, name := range cliBinaries {
		if p, err := lookPath(name); err == nil {
			binary = p
			break
		}
	}
	if binary == "" {
		return nil, fmt.Errorf("%w: no whisper.cpp binary in PATH (tried %v)", ErrUnavailable, cliBinaries)
	}

	model, err := resolveModelFile(sel)
	if err != nil {
		return nil, err
	}
	return &whisperCLI{
		binary:   binary,
		model:    model,
		language: sel.Language,
		threads:  sel.Threads,
	}, nil
}

func (e *whisperCLI) Name() string { return "whisper-cli" }

func (e *whisperCLI) Close() error { return nil }

func (e *whisperCLI) Transcribe(ctx context.Context, req Request) (string, error) {
	f, err := os.CreateTemp("", "quill-*.wav")
	if err != nil {
		return "", fmt.Errorf("whisper-cli: %w", err)
	}
	wavPath := f.Name()
	f.Close()
	defer os.Remove(wavPath)

	if err := writeWAV(wavPath, req.Samples, req.SampleRate); err != nil {
		return "", fmt.Errorf("whisper-cli: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cliTimeout)
	defer cancel()

	args := []string{"-m", e.model, "-f", wavPath, "-nt", "-np"}
	if e.language != "" {
		args = append(args, "-l", e.language)
	}
	if e.threads > 0 {
		args = append(args, "-t", strconv.Itoa(e.threads))
	}
	out, err := proc.Output(ctx, e.binary, args...)
	if err != nil {
		return "", fmt.Errorf("whisper-cli: %w", err)
	}
	return out, nil
}

// writeWAV stores samples as 16-bit PCM mono for tools that cannot read raw
// float files.
func writeWAV(path string, samples []float32, rate int) error {
	if rate <= 0 {
		rate = encoder.SampleRate
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, rate, encoder.BitsPerSample, encoder.Channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: encoder.Channels,
			SampleRate:  rate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: encoder.BitsPerSample,
	}
	for i, s := range samples {
		buf.Data[i] = int(encoder.Quantize(s))
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
