package batch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"BookShot/automation"
)

// ErrBadAdvance marks a malformed next-page action. It is a configuration
// error and aborts before any capture side effect.
var ErrBadAdvance = errors.New(`batch: next action must be "x,y" or a key name`)

type advanceKind int

const (
	advanceKey advanceKind = iota
	advanceClick
)

// Advance is the page-turn action, decided once at configuration time rather
// than re-parsed every iteration: either a pointer click at a screen
// coordinate or a key press.
type Advance struct {
	kind advanceKind
	key  string
	x, y int
}

// ParseAdvance interprets spec as a click when it contains a comma
// ("640,480") and as a key name otherwise ("right"). Non-integer click parts
// are a fatal configuration error.
func ParseAdvance(spec string) (Advance, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Advance{}, ErrBadAdvance
	}
	if !strings.Contains(spec, ",") {
		return Advance{kind: advanceKey, key: spec}, nil
	}
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return Advance{}, fmt.Errorf("%w: got %q", ErrBadAdvance, spec)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Advance{}, fmt.Errorf("%w: got %q", ErrBadAdvance, spec)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Advance{}, fmt.Errorf("%w: got %q", ErrBadAdvance, spec)
	}
	return Advance{kind: advanceClick, x: x, y: y}, nil
}

// String describes the action for logging.
func (a Advance) String() string {
	if a.kind == advanceClick {
		return fmt.Sprintf("click %d,%d", a.x, a.y)
	}
	return "press " + a.key
}

func (a Advance) perform(d automation.Driver) error {
	if a.kind == advanceClick {
		return d.Click(a.x, a.y)
	}
	return d.Press(a.key)
}
