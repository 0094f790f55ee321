// Command bookpdf converts captured page images into searchable PDFs through
// the external tesseract command, and can bundle the images themselves into a
// single PDF.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"BookShot/logging"
	"BookShot/output"
)

func main() {
	var (
		inputFile = flag.String("input-file", "", "single image file to convert")
		inputDir  = flag.String("input-dir", "", "directory of .png files to convert")
		outputDir = flag.String("output-dir", "", "output directory (defaults to the input directory)")
		lang      = flag.String("lang", "kor+eng+chi_tra", "tesseract languages (plus-separated)")
		tess      = flag.String("tess", "tesseract", "tesseract executable path")
		bundle    = flag.Bool("bundle", false, "also bundle the images into one {dirname}_pages.pdf")
		title     = flag.String("title", "", "PDF metadata title for the bundled PDF")
		level     = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := logging.New(*level)
	defer logger.Sync()

	ctx := context.Background()

	if *inputFile != "" {
		base := strings.TrimSuffix(*inputFile, filepath.Ext(*inputFile))
		if err := output.SearchablePDF(ctx, *tess, *inputFile, base, *lang); err != nil {
			logger.Error("conversion failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("pdf saved", zap.String("file", base+".pdf"))
		return
	}

	if *inputDir == "" {
		logger.Error("one of -input-file or -input-dir is required")
		os.Exit(1)
	}
	outDir := *outputDir
	if outDir == "" {
		outDir = *inputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Error("create output dir", zap.Error(err))
		os.Exit(1)
	}

	pngs, err := filepath.Glob(filepath.Join(*inputDir, "*.png"))
	if err != nil {
		logger.Error("list images", zap.Error(err))
		os.Exit(1)
	}
	sort.Strings(pngs)
	for _, img := range pngs {
		stem := strings.TrimSuffix(filepath.Base(img), filepath.Ext(img))
		base := filepath.Join(outDir, stem)
		if _, err := os.Stat(base + ".pdf"); err == nil {
			logger.Info("output exists, skipping", zap.String("file", base+".pdf"))
			continue
		}
		if err := output.SearchablePDF(ctx, *tess, img, base, *lang); err != nil {
			logger.Error("conversion failed", zap.String("file", img), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("pdf saved", zap.String("file", base+".pdf"))
	}

	if *bundle {
		abs, err := filepath.Abs(*inputDir)
		if err != nil {
			logger.Error("resolve input dir", zap.Error(err))
			os.Exit(1)
		}
		out := filepath.Join(outDir, filepath.Base(abs)+"_pages.pdf")
		if err := output.ImagesToPDF(*inputDir, out, *title); err != nil {
			logger.Error("bundle failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("bundled pdf saved", zap.String("file", out))
	}
}
