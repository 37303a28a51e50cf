package engine

import "errors"

var (
	// ErrUnavailable means the engine cannot run here: a binary, API key or
	// model file is missing. Construction failures are fatal at startup.
	ErrUnavailable = errors.New("engine unavailable")

	// ErrModelFetch means a model bundle download or extraction failed.
	ErrModelFetch = errors.New("model fetch failed")
)
