// Package ocr turns captured page images into text files, pacing calls
// against rate-limited remote engines and resuming idempotently across runs.
package ocr

import (
	"context"
	"errors"
)

// ErrRateLimited marks a call rejected by the engine's rate limiter. The
// processor defers such files and retries each exactly once.
var ErrRateLimited = errors.New("ocr: rate limited")

// Engine recognizes the text in one image file.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, path string) (string, error)
}
