// Package window resolves on-screen window geometry by exact name match.
// Geometry is queried fresh on every call and is considered stale as soon as
// the window moves or resizes; callers that issue a resize must locate the
// window again before using its coordinates.
package window

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no window matches the given selectors exactly.
var ErrNotFound = errors.New("window: no exact match")

// minVisibleSize excludes decorative and invisible windows from enumeration.
const minVisibleSize = 10

// Geometry describes one window in pixel screen coordinates.
type Geometry struct {
	App    string
	Title  string
	X      int
	Y      int
	Width  int
	Height int
}

// Visible reports whether the window is larger than the minimum size that
// counts as a real capture target.
func (g Geometry) Visible() bool {
	return g.Width > minVisibleSize && g.Height > minVisibleSize
}

// Matches reports whether either selector equals the window's app name or
// title. Matching is case-insensitive but exact, never substring, so "safari"
// matches "Safari" and not "Safari Preview". Empty selectors never match.
func (g Geometry) Matches(app, title string) bool {
	if app != "" && strings.EqualFold(g.App, app) {
		return true
	}
	if title != "" && strings.EqualFold(g.Title, title) {
		return true
	}
	return false
}

// Lister enumerates the currently visible windows.
type Lister interface {
	ListWindows() ([]Geometry, error)
}

// Locate queries fresh window geometry and returns the first window matching
// either selector, in enumeration order. At least one selector is required.
func Locate(l Lister, app, title string) (Geometry, error) {
	if app == "" && title == "" {
		return Geometry{}, fmt.Errorf("window: an app or title selector is required")
	}
	windows, err := l.ListWindows()
	if err != nil {
		return Geometry{}, fmt.Errorf("window: list: %w", err)
	}
	for _, g := range windows {
		if g.Matches(app, title) {
			return g, nil
		}
	}
	return Geometry{}, ErrNotFound
}
