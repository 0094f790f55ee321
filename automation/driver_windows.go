//go:build windows

package automation

import (
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"BookShot/input"
	"BookShot/window"
)

var (
	user32                        = syscall.NewLazyDLL("user32.dll")
	kernel32                      = syscall.NewLazyDLL("kernel32.dll")
	procEnumWindows               = user32.NewProc("EnumWindows")
	procGetWindowTextW            = user32.NewProc("GetWindowTextW")
	procQueryFullProcessImageName = kernel32.NewProc("QueryFullProcessImageNameW")
)

const processQueryLimitedInformation = 0x1000

// WindowsDriver drives the desktop through user32 and SendInput.
type WindowsDriver struct{}

// NewDriver returns the Windows automation driver.
func NewDriver() *WindowsDriver { return &WindowsDriver{} }

type entry struct {
	hwnd win.HWND
	geom window.Geometry
}

// ListWindows enumerates visible top-level windows larger than the minimum
// capture size, with their owning process name and screen geometry.
func (d *WindowsDriver) ListWindows() ([]window.Geometry, error) {
	entries := enumerate()
	geoms := make([]window.Geometry, 0, len(entries))
	for _, e := range entries {
		geoms = append(geoms, e.geom)
	}
	return geoms, nil
}

// Activate brings the first exactly matching window to the foreground.
func (d *WindowsDriver) Activate(name string) error {
	for _, e := range enumerate() {
		if !e.geom.Matches(name, name) {
			continue
		}
		if !win.SetForegroundWindow(e.hwnd) {
			return fmt.Errorf("automation: SetForegroundWindow failed for %q", name)
		}
		return nil
	}
	return window.ErrNotFound
}

// Resize moves the matching window to its current position with the new size.
// It does not wait for or confirm the resize; callers re-locate afterwards.
func (d *WindowsDriver) Resize(app, title string, width, height int) error {
	for _, e := range enumerate() {
		if !e.geom.Matches(app, title) {
			continue
		}
		w, h := e.geom.Width, e.geom.Height
		if width > 0 {
			w = width
		}
		if height > 0 {
			h = height
		}
		if !win.MoveWindow(e.hwnd, int32(e.geom.X), int32(e.geom.Y), int32(w), int32(h), true) {
			return fmt.Errorf("automation: MoveWindow failed for %q", e.geom.Title)
		}
		return nil
	}
	return window.ErrNotFound
}

// Click presses the left mouse button at the given screen coordinate.
func (d *WindowsDriver) Click(x, y int) error { return input.Click(x, y) }

// Press sends a key operation.
func (d *WindowsDriver) Press(key string) error { return input.Press(key) }

func enumerate() []entry {
	var entries []entry
	cb := syscall.NewCallback(func(hwnd win.HWND, lParam uintptr) uintptr {
		if !win.IsWindowVisible(hwnd) {
			return 1 // 続行
		}
		title := windowText(hwnd)
		if title == "" {
			return 1
		}
		var rect win.RECT
		if !win.GetWindowRect(hwnd, &rect) {
			return 1
		}
		g := window.Geometry{
			App:    processName(hwnd),
			Title:  title,
			X:      int(rect.Left),
			Y:      int(rect.Top),
			Width:  int(rect.Right - rect.Left),
			Height: int(rect.Bottom - rect.Top),
		}
		if !g.Visible() {
			return 1
		}
		list := (*[]entry)(unsafe.Pointer(lParam))
		*list = append(*list, entry{hwnd: hwnd, geom: g})
		return 1
	})
	_, _, _ = procEnumWindows.Call(cb, uintptr(unsafe.Pointer(&entries)))
	return entries
}

func windowText(hwnd win.HWND) string {
	buf := make([]uint16, 256)
	r0, _, _ := syscall.Syscall(procGetWindowTextW.Addr(), 3,
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)))
	n := int(r0)
	if n <= 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

// processName resolves the executable base name (without extension) that owns
// the window, or "" when the process cannot be opened.
func processName(hwnd win.HWND) string {
	var pid uint32
	win.GetWindowThreadProcessId(hwnd, &pid)
	if pid == 0 {
		return ""
	}
	h, err := syscall.OpenProcess(processQueryLimitedInformation, false, pid)
	if err != nil {
		return ""
	}
	defer syscall.CloseHandle(h)
	buf := make([]uint16, 512)
	size := uint32(len(buf))
	r0, _, _ := procQueryFullProcessImageName.Call(
		uintptr(h), 0,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)))
	if r0 == 0 {
		return ""
	}
	exe := filepath.Base(syscall.UTF16ToString(buf[:size]))
	return strings.TrimSuffix(exe, filepath.Ext(exe))
}
