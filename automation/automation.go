// Package automation defines the desktop capability surface consumed by the
// batch orchestrator. Keeping it behind an interface makes the capture loop
// deterministic to test with a fake driver.
package automation

import "BookShot/window"

// Driver is the OS automation layer: window enumeration, focus, resize, and
// pointer/key injection.
type Driver interface {
	// ListWindows returns fresh geometry for all visible top-level windows.
	ListWindows() ([]window.Geometry, error)

	// Activate brings the first window whose app name or title exactly
	// matches name (case-insensitive) to the foreground.
	Activate(name string) error

	// Resize sets the matching window's size. Zero keeps the current value
	// for that dimension. Resize does not re-verify; geometry held by the
	// caller is stale afterwards and must be located again.
	Resize(app, title string, width, height int) error

	// Click presses the left mouse button at the given screen coordinate.
	Click(x, y int) error

	// Press sends a key operation such as "right" or "Ctrl+Right".
	Press(key string) error
}
