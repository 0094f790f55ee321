package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMistralBaseURL = "https://api.mistral.ai"
	defaultMistralModel   = "mistral-ocr-latest"
)

// MistralConfig configures the remote OCR engine. Zero fields other than
// APIKey fall back to defaults.
type MistralConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// MistralEngine calls the Mistral OCR API with base64-embedded images and
// returns the page markdown joined by blank lines.
type MistralEngine struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewMistralEngine builds the remote engine.
func NewMistralEngine(cfg MistralConfig, logger *zap.Logger) *MistralEngine {
	if cfg.Model == "" {
		cfg.Model = defaultMistralModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultMistralBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 45 * time.Second}
	}
	return &MistralEngine{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  cfg.HTTPClient,
		log:     logger,
	}
}

func (e *MistralEngine) Name() string { return "mistral" }

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
}

type ocrPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// Recognize submits one image file and returns the extracted text. An HTTP
// 429 surfaces as ErrRateLimited; other non-200 statuses are plain failures.
func (e *MistralEngine) Recognize(ctx context.Context, path string) (string, error) {
	if e.apiKey == "" {
		return "", errors.New("ocr: MISTRAL_API_KEY not set")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ocr: read %s: %w", path, err)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType(path), base64.StdEncoding.EncodeToString(raw))
	body, err := json.Marshal(ocrRequest{
		Model:    e.model,
		Document: ocrDocument{Type: "image_url", ImageURL: dataURL},
	})
	if err != nil {
		return "", fmt.Errorf("ocr: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/ocr", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ocr: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	reqID := uuid.New().String()
	start := time.Now()
	e.log.Debug("ocr request",
		zap.String("req_id", reqID), zap.String("file", path), zap.Int("content_length", len(body)))

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr: send: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ocr: read response: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		e.log.Warn("ocr rate limited", zap.String("req_id", reqID), zap.String("file", path))
		return "", ErrRateLimited
	default:
		return "", fmt.Errorf("ocr: api status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
	}

	var out ocrResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("ocr: decode response: %w", err)
	}
	var b strings.Builder
	for _, p := range out.Pages {
		b.WriteString(p.Markdown)
		b.WriteString("\n\n")
	}
	e.log.Debug("ocr response",
		zap.String("req_id", reqID),
		zap.Int("pages", len(out.Pages)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	return strings.TrimSpace(b.String()), nil
}

func mimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jpg" {
		return "image/jpeg"
	}
	return "image/" + strings.TrimPrefix(ext, ".")
}
