package output

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// SearchablePDF runs the external tesseract command to convert one image into
// a searchable PDF at outBase+".pdf". tessPath is the tesseract executable,
// lang the plus-separated language list (e.g. "eng+kor").
func SearchablePDF(ctx context.Context, tessPath, imgPath, outBase, lang string) error {
	cmd := exec.CommandContext(ctx, tessPath, imgPath, outBase, "-l", lang, "pdf")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("output: tesseract %s: %w: %s", imgPath, err, bytes.TrimSpace(out))
	}
	return nil
}
