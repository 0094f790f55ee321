package output

import (
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/jung-kurt/gofpdf"
)

// pixelsToMm converts pixels to mm at 96 DPI.
const pixelsPerInch = 96
const mmPerInch = 25.4

func pixelsToMm(pixels int) float64 {
	return float64(pixels) * mmPerInch / pixelsPerInch
}

// ImagesToPDF bundles every PNG in dir, in filename order, into a single PDF
// at outPath. Each page takes the pixel size of its image at 96 DPI; title
// becomes the PDF metadata title. Zero-byte and undecodable files are
// skipped.
func ImagesToPDF(dir, outPath, title string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var pngs []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
			continue
		}
		pngs = append(pngs, filepath.Join(dir, e.Name()))
	}
	if len(pngs) == 0 {
		return nil
	}
	sort.Strings(pngs)

	pdf := gofpdf.New("P", "mm", "A4", "")
	if title != "" {
		pdf.SetTitle(title, true)
	}
	for _, path := range pngs {
		w, h, err := pngSize(path)
		if err != nil || w <= 0 || h <= 0 {
			continue
		}
		wMm, hMm := pixelsToMm(w), pixelsToMm(h)
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: wMm, Ht: hMm})
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.ImageOptions(path, 0, 0, wMm, hMm, false, opt, 0, "")
	}
	return pdf.OutputFileAndClose(outPath)
}

func pngSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
