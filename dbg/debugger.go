// Package dbg provides mode-gated debug tracing for the simulation.
package dbg

import "github.com/sirupsen/logrus"

// Mode is a category of debug output that can be toggled on its own.
type Mode uint8

const (
	ModeCollisions Mode = iota
	ModeController
	ModeFSA
	ModeGrid
	ModeWorld
	modeCount
)

var modeNames = [...]string{
	ModeCollisions: "collisions",
	ModeController: "controller",
	ModeFSA:        "fsa",
	ModeGrid:       "grid",
	ModeWorld:      "world",
}

func (m Mode) String() string {
	if m >= modeCount {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), true
		}
	}
	return 0, false
}

// Debugger writes debug messages for the enabled modes. A nil Debugger discards everything.
type Debugger struct {
	log     *logrus.Logger
	enabled [modeCount]bool
}

// New creates a debugger writing to log with every mode disabled.
func New(log *logrus.Logger) *Debugger {
	return &Debugger{log: log}
}

// Toggle flips a mode and returns whether it is now enabled.
func (d *Debugger) Toggle(m Mode) bool {
	if m >= modeCount {
		return false
	}
	d.enabled[m] = !d.enabled[m]
	return d.enabled[m]
}

// Enable turns a mode on.
func (d *Debugger) Enable(m Mode) {
	if m < modeCount {
		d.enabled[m] = true
	}
}

// Enabled returns true if the mode is on.
func (d *Debugger) Enabled(m Mode) bool {
	return d != nil && m < modeCount && d.enabled[m]
}

// Notify logs the message if the mode is enabled and cond holds.
func (d *Debugger) Notify(m Mode, cond bool, format string, args ...interface{}) {
	if !cond || !d.Enabled(m) {
		return
	}
	d.log.WithField("mode", m.String()).Debugf(format, args...)
}
