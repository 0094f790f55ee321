package batch

import (
	"fmt"
	"strconv"
)

// PageSpec defines the closed page range [Start, Start+Count-1] and the
// artifact name prefix.
type PageSpec struct {
	Prefix string
	Start  int
	Count  int
}

// PadWidth is the digit count of the largest page number in the run, so that
// lexicographic filename order equals numeric page order.
func (s PageSpec) PadWidth() int {
	return len(strconv.Itoa(s.Start + s.Count - 1))
}

// FileName returns the artifact name for page i:
// {prefix}_{index zero-padded to PadWidth}.png.
func (s PageSpec) FileName(i int) string {
	return fmt.Sprintf("%s_%0*d.png", s.Prefix, s.PadWidth(), i)
}
