// Package input injects pointer and keyboard events through the Win32
// SendInput API.
package input
