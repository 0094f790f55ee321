package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Processor applies an Engine to every image in a directory with at most one
// call in flight at a time, a fixed pacing sleep after every call, and a
// single bounded retry pass for rate-limited files.
type Processor struct {
	engine Engine
	log    *zap.Logger
	slot   chan struct{} // capacity 1: serializes remote calls

	// PaceDelay follows every engine call regardless of outcome.
	PaceDelay time.Duration
	// RetryBackoff is the wait before the single retry pass.
	RetryBackoff time.Duration
}

// NewProcessor builds a processor with the default pacing (200ms) and retry
// back-off (3s).
func NewProcessor(engine Engine, logger *zap.Logger) *Processor {
	return &Processor{
		engine:       engine,
		log:          logger,
		slot:         make(chan struct{}, 1),
		PaceDelay:    200 * time.Millisecond,
		RetryBackoff: 3 * time.Second,
	}
}

// Failure records one file that could not be processed.
type Failure struct {
	Path string
	Err  error
}

// Result enumerates what one run produced. Failed files never abort the rest
// of the batch.
type Result struct {
	Written []string
	Skipped []string
	Failed  []Failure
}

// ProcessDir runs OCR over every .png in dir, writing one .txt per image into
// outDir (dir itself when empty). Files whose output already exists are
// skipped, so an interrupted run resumes where it left off. Rate-limited
// files are deferred and retried exactly once after RetryBackoff; a file
// still failing then is a terminal per-item failure.
func (p *Processor) ProcessDir(ctx context.Context, dir, outDir string) (Result, error) {
	if outDir == "" {
		outDir = dir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, err
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return Result{}, err
	}
	sort.Strings(files)

	var res Result
	var deferred []string
	for _, f := range files {
		txt := txtPath(outDir, f)
		if _, err := os.Stat(txt); err == nil {
			p.log.Info("output exists, skipping", zap.String("file", txt))
			res.Skipped = append(res.Skipped, f)
			continue
		}
		text, err := p.recognize(ctx, f)
		switch {
		case errors.Is(err, ErrRateLimited):
			deferred = append(deferred, f)
		case err != nil:
			p.log.Error("ocr failed", zap.String("file", f), zap.Error(err))
			res.Failed = append(res.Failed, Failure{Path: f, Err: err})
		default:
			if err := os.WriteFile(txt, []byte(text), 0o644); err != nil {
				return res, err
			}
			res.Written = append(res.Written, txt)
			p.log.Info("text saved", zap.String("file", txt))
		}
		pause(p.PaceDelay)
	}

	if len(deferred) > 0 {
		p.log.Warn("rate limited files queued for one retry",
			zap.Int("count", len(deferred)), zap.Duration("backoff", p.RetryBackoff))
		pause(p.RetryBackoff)
		for _, f := range deferred {
			text, err := p.recognize(ctx, f)
			if err != nil {
				p.log.Error("retry failed", zap.String("file", f), zap.Error(err))
				res.Failed = append(res.Failed, Failure{Path: f, Err: err})
				continue
			}
			txt := txtPath(outDir, f)
			if err := os.WriteFile(txt, []byte(text), 0o644); err != nil {
				return res, err
			}
			res.Written = append(res.Written, txt)
			p.log.Info("retry succeeded", zap.String("file", txt))
		}
	}
	return res, nil
}

// recognize holds the single in-flight slot around the engine call so only
// one request runs at a time, released even on error.
func (p *Processor) recognize(ctx context.Context, path string) (string, error) {
	p.slot <- struct{}{}
	defer func() { <-p.slot }()
	return p.engine.Recognize(ctx, path)
}

// MergeText concatenates every .txt in dir, in filename-sorted order, into
// {dirname}_merged.txt: contents trimmed, separated by a blank line. Per-file
// outputs are never touched; an existing merged file is excluded from its own
// input and overwritten. Returns "" when there is nothing to merge.
func MergeText(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return "", err
	}
	sort.Strings(files)
	merged := filepath.Join(dir, filepath.Base(abs)+"_merged.txt")

	var b strings.Builder
	n := 0
	for _, f := range files {
		if filepath.Base(f) == filepath.Base(merged) {
			continue
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return "", err
		}
		b.WriteString(strings.TrimSpace(string(data)))
		b.WriteString("\n\n")
		n++
	}
	if n == 0 {
		return "", nil
	}
	if err := os.WriteFile(merged, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return merged, nil
}

func txtPath(outDir, imgPath string) string {
	base := filepath.Base(imgPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+".txt")
}

func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
