package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text locally through the gosseract bindings, for
// runs where the remote API is unavailable or unwanted.
type TesseractEngine struct {
	languages []string
}

// NewTesseractEngine builds a local engine with the given trained-data
// languages (e.g. "eng", "kor"). No languages means Tesseract's default.
func NewTesseractEngine(languages ...string) *TesseractEngine {
	return &TesseractEngine{languages: languages}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize runs Tesseract over one image file.
func (e *TesseractEngine) Recognize(ctx context.Context, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	c := gosseract.NewClient()
	defer c.Close()
	if err := c.SetImage(path); err != nil {
		return "", fmt.Errorf("ocr: set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("ocr: set languages: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
