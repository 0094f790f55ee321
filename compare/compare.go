// Package compare detects repeated captures by content hash, used to stop a
// batch early when the reader no longer advances.
package compare

import (
	"bytes"
	"crypto/sha256"
	"image"
	"image/png"
)

// Hash returns the SHA256 of the image's PNG encoding, matching the bytes
// written for the page artifact.
func Hash(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	h := sha256.Sum256(buf.Bytes())
	return h[:], nil
}

// ThreeSame reports whether the three hashes are all present and equal.
func ThreeSame(a, b, c []byte) bool {
	if a == nil || b == nil || c == nil {
		return false
	}
	return bytes.Equal(a, b) && bytes.Equal(b, c)
}
