package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// scriptedEngine returns the queued outcomes for each path, in call order.
type scriptedEngine struct {
	outcomes map[string][]outcome
	calls    map[string]int
}

type outcome struct {
	text string
	err  error
}

func newScriptedEngine() *scriptedEngine {
	return &scriptedEngine{outcomes: map[string][]outcome{}, calls: map[string]int{}}
}

func (e *scriptedEngine) queue(base, text string, err error) {
	e.outcomes[base] = append(e.outcomes[base], outcome{text: text, err: err})
}

func (e *scriptedEngine) Name() string { return "scripted" }

func (e *scriptedEngine) Recognize(_ context.Context, path string) (string, error) {
	base := filepath.Base(path)
	n := e.calls[base]
	e.calls[base] = n + 1
	queued := e.outcomes[base]
	if n >= len(queued) {
		return "", errors.New("unexpected extra call for " + base)
	}
	return queued[n].text, queued[n].err
}

func newTestProcessor(e Engine) *Processor {
	p := NewProcessor(e, zap.NewNop())
	p.PaceDelay = 0
	p.RetryBackoff = 0
	return p
}

func writePages(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestProcessDirWritesText(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "b_1.png", "b_2.png")
	e := newScriptedEngine()
	e.queue("b_1.png", "page one", nil)
	e.queue("b_2.png", "page two", nil)

	res, err := newTestProcessor(e).ProcessDir(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if len(res.Written) != 2 || len(res.Failed) != 0 {
		t.Fatalf("result = %+v, want 2 written, 0 failed", res)
	}
	data, err := os.ReadFile(filepath.Join(dir, "b_1.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "page one" {
		t.Fatalf("output = %q, want %q", data, "page one")
	}
}

func TestProcessDirSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "b_1.png")
	if err := os.WriteFile(filepath.Join(dir, "b_1.txt"), []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}
	e := newScriptedEngine() // any call would error

	res, err := newTestProcessor(e).ProcessDir(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(res.Skipped))
	}
	if e.calls["b_1.png"] != 0 {
		t.Fatal("engine called for a file whose output already exists")
	}
	data, _ := os.ReadFile(filepath.Join(dir, "b_1.txt"))
	if string(data) != "already here" {
		t.Fatal("existing output was overwritten")
	}
}

func TestProcessDirRetriesRateLimitedOnce(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "b_1.png", "b_2.png", "b_3.png")
	e := newScriptedEngine()
	e.queue("b_1.png", "one", nil)
	e.queue("b_2.png", "", ErrRateLimited) // first pass
	e.queue("b_2.png", "two", nil)         // retry succeeds
	e.queue("b_3.png", "", ErrRateLimited) // first pass
	e.queue("b_3.png", "", ErrRateLimited) // retry still limited: terminal

	res, err := newTestProcessor(e).ProcessDir(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if e.calls["b_1.png"] != 1 {
		t.Errorf("unaffected file called %d times, want 1", e.calls["b_1.png"])
	}
	if e.calls["b_2.png"] != 2 || e.calls["b_3.png"] != 2 {
		t.Errorf("rate-limited files called %d and %d times, want exactly 2 each",
			e.calls["b_2.png"], e.calls["b_3.png"])
	}
	if len(res.Written) != 2 {
		t.Errorf("written = %d, want 2", len(res.Written))
	}
	if len(res.Failed) != 1 || filepath.Base(res.Failed[0].Path) != "b_3.png" {
		t.Errorf("failed = %+v, want only b_3.png", res.Failed)
	}
	if !errors.Is(res.Failed[0].Err, ErrRateLimited) {
		t.Errorf("failure error = %v, want ErrRateLimited", res.Failed[0].Err)
	}
}

func TestProcessDirOtherFailureNotRetried(t *testing.T) {
	dir := t.TempDir()
	writePages(t, dir, "b_1.png", "b_2.png")
	boom := errors.New("server exploded")
	e := newScriptedEngine()
	e.queue("b_1.png", "", boom)
	e.queue("b_2.png", "two", nil)

	res, err := newTestProcessor(e).ProcessDir(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if e.calls["b_1.png"] != 1 {
		t.Errorf("failed file called %d times, want 1 (no automatic retry)", e.calls["b_1.png"])
	}
	if len(res.Written) != 1 || len(res.Failed) != 1 {
		t.Fatalf("result = %+v, want the batch to continue past the failure", res)
	}
}

func TestProcessDirSeparateOutputDir(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePages(t, in, "b_1.png")
	e := newScriptedEngine()
	e.queue("b_1.png", "text", nil)

	if _, err := newTestProcessor(e).ProcessDir(context.Background(), in, out); err != nil {
		t.Fatalf("ProcessDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "b_1.txt")); err != nil {
		t.Fatalf("output missing from output dir: %v", err)
	}
}

func TestMergeText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mobydick")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"b_2.txt": "second page  \n",
		"b_1.txt": "\nfirst page",
		"b_3.txt": "third page",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	merged, err := MergeText(dir)
	if err != nil {
		t.Fatalf("MergeText() error = %v", err)
	}
	if filepath.Base(merged) != "mobydick_merged.txt" {
		t.Fatalf("merged path = %q, want mobydick_merged.txt", merged)
	}
	data, err := os.ReadFile(merged)
	if err != nil {
		t.Fatal(err)
	}
	want := "first page\n\nsecond page\n\nthird page\n\n"
	if string(data) != want {
		t.Fatalf("merged content = %q, want %q", data, want)
	}
	// per-item outputs untouched
	raw, _ := os.ReadFile(filepath.Join(dir, "b_2.txt"))
	if string(raw) != files["b_2.txt"] {
		t.Fatal("merge mutated a per-item output")
	}
}

func TestMergeTextExcludesItself(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "book")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("page"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := MergeText(dir); err != nil {
		t.Fatal(err)
	}
	// a second merge over the same directory must not fold the previous
	// merged file into the new one
	merged, err := MergeText(dir)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(merged)
	if got := strings.Count(string(data), "page"); got != 1 {
		t.Fatalf("merged content contains %d copies, want 1", got)
	}
}

func TestMergeTextEmptyDir(t *testing.T) {
	merged, err := MergeText(t.TempDir())
	if err != nil {
		t.Fatalf("MergeText() error = %v", err)
	}
	if merged != "" {
		t.Fatalf("MergeText() on empty dir = %q, want empty", merged)
	}
}
