package engine

import (
	"archive/tar"
	"compress/bzip2"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"quill/log"
)

const bundleBaseURL = "https://github.com/k2-fsa/sherpa-onnx/releases/download/asr-models/"

// Bundle is an extracted onnx model directory.
type Bundle struct {
	Dir     string
	Encoder string
	Decoder string
	Tokens  string
}

func bundleName(model string) string {
	return "sherpa-onnx-whisper-" + model
}

// EnsureBundle returns the extracted bundle for a model, downloading it on
// first use. A cache hit never touches the network.
func EnsureBundle(model, cacheRoot string) (*Bundle, error) {
	if cacheRoot == "" {
		cacheRoot = DefaultCacheDir()
	}
	name := bundleName(model)
	dir := filepath.Join(cacheRoot, "models", name)

	if b, err := openBundle(dir, model); err == nil {
		return b, nil
	}
	if err := fetchBundle(name, filepath.Join(cacheRoot, "models")); err != nil {
		return nil, err
	}
	return openBundle(dir, model)
}

// openBundle validates that every file the recognizer needs is present.
func openBundle(dir, model string) (*Bundle, error) {
	b := &Bundle{
		Dir:     dir,
		Encoder: filepath.Join(dir, model+"-encoder.onnx"),
		Decoder: filepath.Join(dir, model+"-decoder.onnx"),
		Tokens:  filepath.Join(dir, model+"-tokens.txt"),
	}
	for _, p := range []string{b.Encoder, b.Decoder, b.Tokens} {
		if !fileExists(p) {
			return nil, fmt.Errorf("%w: missing %s", ErrModelFetch, p)
		}
	}
	return b, nil
}

func fetchBundle(name, destRoot string) error {
	url := bundleBaseURL + name + ".tar.bz2"
	log.Infof("downloading model bundle %s", url)

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrModelFetch, err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", ErrModelFetch, url, resp.Status)
	}

	if err := extractBundle(resp.Body, destRoot, name); err != nil {
		return fmt.Errorf("%w: %v", ErrModelFetch, err)
	}
	log.Infof("model bundle ready: %s", filepath.Join(destRoot, name))
	return nil
}

// extractBundle unpacks into a scratch directory first so an interrupted
// download never counts as a cache hit.
func extractBundle(r io.Reader, destRoot, name string) error {
	tmp, err := os.MkdirTemp(destRoot, "fetch-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := extractTar(tar.NewReader(bzip2.NewReader(r)), tmp); err != nil {
		return err
	}

	src := filepath.Join(tmp, name)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("archive did not contain %s", name)
	}
	dest := filepath.Join(destRoot, name)
	_ = os.RemoveAll(dest)
	return os.Rename(src, dest)
}

func extractTar(tr *tar.Reader, dest string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := securePath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			// symlinks and specials are not expected in model bundles
		}
	}
}

func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.Clean(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}
