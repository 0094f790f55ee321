//go:build windows

// Command bookshot captures a paged document from a reader window: it
// locates the window by exact name, captures the left third of it once per
// page, crops each capture to its content, and turns the page between
// captures.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"BookShot/automation"
	"BookShot/batch"
	"BookShot/capture"
	"BookShot/crop"
	"BookShot/logging"
)

func main() {
	var (
		app    = flag.String("app", "", "application name to capture (exact match, case-insensitive)")
		label  = flag.String("label", "", "window title to capture (exact match, case-insensitive)")
		show   = flag.Bool("show", false, "list available windows and exit")
		dir    = flag.String("dir", "output", "output directory")
		book   = flag.String("book", "", "book prefix; when set it is also used as the output directory")
		start  = flag.Int("start", 1, "start page number")
		count  = flag.Int("no", 5, "number of pages to capture")
		next   = flag.String("next", "right", "next page action: \"x,y\" to click or a key name to press")
		delay  = flag.Duration("delay", 0, "wait before each capture (e.g. 1.5s)")
		width  = flag.Int("width", 0, "override window width in pixels (0 keeps current)")
		height = flag.Int("height", 0, "override window height in pixels (0 keeps current)")
		top    = flag.Int("top", 0, "crop margin from top")
		bottom = flag.Int("bottom", 0, "crop margin from bottom")
		left   = flag.Int("left", 0, "crop margin from left")
		right  = flag.Int("right", 0, "crop margin from right")
		stop   = flag.Bool("stop-on-repeat", false, "stop early when three consecutive captures are identical")
		level  = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := logging.New(*level)
	defer logger.Sync()

	driver := automation.NewDriver()

	if *show {
		windows, err := driver.ListWindows()
		if err != nil {
			logger.Error("failed to list windows", zap.Error(err))
			os.Exit(1)
		}
		fmt.Println("\nAvailable Windows:")
		for i, g := range windows {
			fmt.Printf("%2d. [%s] %s  (%d,%d) %dx%d\n", i+1, g.App, g.Title, g.X, g.Y, g.Width, g.Height)
		}
		os.Exit(0)
	}

	if *app == "" && *label == "" {
		logger.Error("batch capture requires -app or -label to select the window")
		os.Exit(1)
	}
	advance, err := batch.ParseAdvance(*next)
	if err != nil {
		logger.Error("invalid -next action", zap.Error(err))
		os.Exit(1)
	}

	prefix := "page"
	outDir := *dir
	if *book != "" {
		prefix = *book
		outDir = *book
	}

	orchestrator := batch.NewOrchestrator(driver, capture.Capture, crop.New(logger), logger)
	paths, err := orchestrator.Run(batch.Options{
		App:            *app,
		Title:          *label,
		OutputDir:      outDir,
		Pages:          batch.PageSpec{Prefix: prefix, Start: *start, Count: *count},
		Next:           advance,
		CaptureDelay:   *delay,
		FocusDelay:     batch.DefaultFocusDelay,
		SettleDelay:    batch.DefaultSettleDelay,
		WidthOverride:  *width,
		HeightOverride: *height,
		Margins:        crop.Margins{Top: *top, Bottom: *bottom, Left: *left, Right: *right},
		StopOnRepeat:   *stop,
	})
	if err != nil {
		logger.Error("batch capture failed", zap.Error(err), zap.Int("captured", len(paths)))
		os.Exit(1)
	}
	logger.Info("batch capture complete", zap.Int("pages", len(paths)), zap.String("dir", outDir))
}
