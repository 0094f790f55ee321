// Command bookocr extracts text from captured page images, one .txt per
// image, pacing and retrying against the rate-limited remote OCR API, with an
// optional merge of all outputs into a single file.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"BookShot/logging"
	"BookShot/ocr"
)

func main() {
	var (
		inputFile  = flag.String("input-file", "", "single image file to recognize")
		inputDir   = flag.String("input-dir", "", "directory of .png files to recognize")
		outputFile = flag.String("output-file", "", "output path for -input-file (defaults to the image name with .txt)")
		outputDir  = flag.String("output-dir", "", "output directory for -input-dir (defaults to the input directory)")
		merge      = flag.Bool("merge", false, "merge all .txt outputs into one file")
		engineName = flag.String("engine", "mistral", "OCR engine: mistral or tesseract")
		lang       = flag.String("lang", "kor+eng", "languages for the tesseract engine (plus-separated)")
		level      = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := logging.New(*level)
	defer logger.Sync()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var engine ocr.Engine
	switch *engineName {
	case "tesseract":
		engine = ocr.NewTesseractEngine(strings.Split(*lang, "+")...)
	case "mistral":
		engine = ocr.NewMistralEngine(ocr.MistralConfig{
			APIKey: os.Getenv("MISTRAL_API_KEY"),
			Model:  getEnv("MISTRAL_OCR_MODEL", ""),
		}, logger)
	default:
		logger.Error("unknown engine", zap.String("engine", *engineName))
		os.Exit(1)
	}

	ctx := context.Background()

	if *inputFile != "" {
		out := *outputFile
		if out == "" {
			out = strings.TrimSuffix(*inputFile, filepath.Ext(*inputFile)) + ".txt"
		}
		text, err := engine.Recognize(ctx, *inputFile)
		if err != nil {
			logger.Error("ocr failed", zap.String("file", *inputFile), zap.Error(err))
			os.Exit(1)
		}
		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			logger.Error("write output", zap.String("file", out), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("text saved", zap.String("file", out))
		return
	}

	if *inputDir == "" {
		logger.Error("one of -input-file or -input-dir is required")
		os.Exit(1)
	}

	processor := ocr.NewProcessor(engine, logger)
	result, err := processor.ProcessDir(ctx, *inputDir, *outputDir)
	if err != nil {
		logger.Error("processing aborted", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("processing finished",
		zap.Int("written", len(result.Written)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)))

	if *merge {
		dir := *outputDir
		if dir == "" {
			dir = *inputDir
		}
		merged, err := ocr.MergeText(dir)
		if err != nil {
			logger.Error("merge failed", zap.Error(err))
			os.Exit(1)
		}
		if merged != "" {
			logger.Info("merged text saved", zap.String("file", merged))
		}
	}

	if len(result.Failed) > 0 {
		for _, f := range result.Failed {
			logger.Error("file failed", zap.String("file", f.Path), zap.Error(f.Err))
		}
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
