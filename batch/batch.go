// Package batch drives the multi-page capture loop: activate the reader
// window, wait, capture, crop, save, turn the page. The loop is synchronous;
// each step completes before the next begins, and the run stops at the first
// unrecoverable error.
package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"BookShot/automation"
	"BookShot/capture"
	"BookShot/compare"
	"BookShot/crop"
	"BookShot/output"
	"BookShot/window"
)

// Default delays used by the CLI. Tests pass zero values instead.
const (
	// DefaultFocusDelay is the wait after bringing the window forward.
	DefaultFocusDelay = 300 * time.Millisecond
	// DefaultSettleDelay lets UI state stabilize after a capture or a
	// page turn.
	DefaultSettleDelay = 100 * time.Millisecond
)

// CaptureFunc grabs the raw pixels for a region.
type CaptureFunc func(capture.Region) (image.Image, error)

// Options configure one batch run.
type Options struct {
	App   string // app selector, exact case-insensitive match
	Title string // window title selector

	OutputDir string
	Pages     PageSpec
	Next      Advance

	CaptureDelay time.Duration // operator wait before each capture
	FocusDelay   time.Duration // wait after activation
	SettleDelay  time.Duration // wait after capture and after advance

	WidthOverride  int // resize the window before capturing; 0 keeps current
	HeightOverride int

	Margins crop.Margins

	// StopOnRepeat stops the run early when three consecutive captures are
	// identical (the reader stopped advancing); the two redundant trailing
	// artifacts are removed.
	StopOnRepeat bool
}

// Orchestrator owns the injected capabilities for a batch run.
type Orchestrator struct {
	driver  automation.Driver
	grab    CaptureFunc
	cropper *crop.Cropper
	log     *zap.Logger
}

// NewOrchestrator wires the capture loop. The driver and grab function are
// injected so runs are deterministic under test.
func NewOrchestrator(driver automation.Driver, grab CaptureFunc, cropper *crop.Cropper, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{driver: driver, grab: grab, cropper: cropper, log: logger}
}

// Run captures opts.Pages.Count pages and returns the written artifact paths
// in capture order. A batch either completes fully or stops at the first
// unrecoverable step; a page failing mid-capture leaves no artifact under its
// final name.
func (o *Orchestrator) Run(opts Options) ([]string, error) {
	if opts.Pages.Count < 1 {
		return nil, fmt.Errorf("batch: page count must be >= 1, got %d", opts.Pages.Count)
	}
	geom, err := window.Locate(o.driver, opts.App, opts.Title)
	if err != nil {
		return nil, err
	}
	if opts.WidthOverride > 0 || opts.HeightOverride > 0 {
		if err := o.driver.Resize(opts.App, opts.Title, opts.WidthOverride, opts.HeightOverride); err != nil {
			return nil, fmt.Errorf("batch: resize: %w", err)
		}
		// geometry is stale after a resize; query again
		geom, err = window.Locate(o.driver, opts.App, opts.Title)
		if err != nil {
			return nil, err
		}
	}
	region, err := capture.LeftThird(geom, opts.WidthOverride, opts.HeightOverride)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("batch: create output dir: %w", err)
	}
	o.log.Info("batch start",
		zap.String("app", geom.App), zap.String("title", geom.Title),
		zap.Int("x", region.X), zap.Int("y", region.Y),
		zap.Int("width", region.Width), zap.Int("height", region.Height),
		zap.Int("start", opts.Pages.Start), zap.Int("count", opts.Pages.Count),
		zap.Stringer("next", opts.Next))

	// Intervening clicks or app switches can steal focus, so the window is
	// activated before every single capture.
	target := geom.App
	if target == "" {
		target = geom.Title
	}

	var paths []string
	var prevHash, prevPrevHash []byte
	last := opts.Pages.Start + opts.Pages.Count - 1
	for i := opts.Pages.Start; i <= last; i++ {
		o.log.Info("capturing page", zap.Int("page", i))
		if err := o.driver.Activate(target); err != nil {
			return paths, fmt.Errorf("batch: activate %q: %w", target, err)
		}
		sleep(opts.FocusDelay)
		sleep(opts.CaptureDelay)

		img, err := o.grab(region)
		if err != nil {
			return paths, fmt.Errorf("batch: page %d: %w", i, err)
		}
		cropped := o.cropper.ToContent(img, opts.Margins)
		path := filepath.Join(opts.OutputDir, opts.Pages.FileName(i))
		if err := output.SavePNG(path, cropped); err != nil {
			return paths, fmt.Errorf("batch: page %d: %w", i, err)
		}
		paths = append(paths, path)

		if opts.StopOnRepeat {
			hash, err := compare.Hash(cropped)
			if err == nil && compare.ThreeSame(prevPrevHash, prevHash, hash) {
				paths = o.dropRepeats(paths)
				o.log.Info("three identical pages in a row, stopping early",
					zap.Int("page", i), zap.Int("kept", len(paths)))
				return paths, nil
			}
			prevPrevHash, prevHash = prevHash, hash
		}

		sleep(opts.SettleDelay)
		if i < last {
			if err := opts.Next.perform(o.driver); err != nil {
				return paths, fmt.Errorf("batch: advance after page %d: %w", i, err)
			}
			sleep(opts.SettleDelay)
		}
	}
	o.log.Info("batch complete", zap.Int("pages", len(paths)), zap.String("dir", opts.OutputDir))
	return paths, nil
}

// dropRepeats removes the two trailing duplicates of a three-in-a-row run.
func (o *Orchestrator) dropRepeats(paths []string) []string {
	for _, p := range paths[len(paths)-2:] {
		if err := os.Remove(p); err != nil {
			o.log.Warn("failed to remove duplicate page", zap.String("path", p), zap.Error(err))
		}
	}
	return paths[:len(paths)-2]
}

func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
