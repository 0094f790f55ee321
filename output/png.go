package output

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// SavePNG writes img to path atomically. The encode goes to a temp file in
// the same directory that is renamed into place only on success, so a failed
// capture never leaves a partial artifact under the final name.
func SavePNG(path string, img image.Image) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".bookshot-*.png")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
